package main

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/rodstewart/bidctl/internal/api"
	"github.com/rodstewart/bidctl/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage bidctl configuration",
	Long:  `Manage your bidctl configuration including the portal address and logging settings.`,
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize configuration interactively",
	Long:  `Create a new configuration file by prompting for the portal URL.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		reader := bufio.NewReader(os.Stdin)

		url, err := readLine(reader, "Portal URL: ")
		if err != nil {
			return fmt.Errorf("failed to read URL: %w", err)
		}
		if url == "" {
			return fmt.Errorf("URL is required")
		}

		cfg := &config.Config{
			URL:      url,
			LogLevel: config.DefaultLogLevel,
			Timeout:  config.DefaultTimeout,
		}

		configPath := cfgFile
		if configPath == "" {
			defaultPath, err := config.DefaultConfigPath()
			if err != nil {
				return err
			}
			configPath = defaultPath
		}

		if err := config.Save(cfg, configPath); err != nil {
			return fmt.Errorf("failed to save config: %w", err)
		}

		if jsonOutput {
			output := map[string]string{
				"status": "success",
				"path":   configPath,
			}
			return json.NewEncoder(os.Stdout).Encode(output)
		}

		fmt.Printf("✓ Configuration saved to %s\n", configPath)
		return nil
	},
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Display current configuration",
	Long:  `Show the effective configuration after environment and flag overrides.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		if jsonOutput {
			output := map[string]string{
				"url":          cfg.URL,
				"session_file": cfg.SessionFile,
				"log_level":    cfg.LogLevel,
				"log_file":     cfg.LogFile,
				"timeout":      cfg.Timeout.String(),
			}
			return json.NewEncoder(os.Stdout).Encode(output)
		}

		fmt.Printf("URL: %s\n", cfg.URL)
		fmt.Printf("Session file: %s\n", cfg.SessionFile)
		fmt.Printf("Log level: %s\n", cfg.LogLevel)
		if cfg.LogFile != "" {
			fmt.Printf("Log file: %s\n", cfg.LogFile)
		}
		fmt.Printf("Timeout: %s\n", cfg.Timeout)
		return nil
	},
}

var configTestCmd = &cobra.Command{
	Use:   "test",
	Short: "Test connection to the portal",
	Long:  `Verify that the configured URL answers the tender list endpoint.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		client := api.NewClient(cfg.URL, nil, api.WithTimeout(cfg.Timeout))
		ctx, cancel := context.WithTimeout(cmd.Context(), 10*time.Second)
		defer cancel()

		if err := client.TestConnection(ctx); err != nil {
			if jsonOutput {
				output := map[string]string{
					"status": "failed",
					"error":  err.Error(),
				}
				_ = json.NewEncoder(os.Stdout).Encode(output)
				return err
			}
			return fmt.Errorf("✗ Connection failed: %w", err)
		}

		if jsonOutput {
			output := map[string]string{
				"status": "success",
				"url":    cfg.URL,
			}
			return json.NewEncoder(os.Stdout).Encode(output)
		}

		fmt.Printf("✓ Successfully connected to %s\n", cfg.URL)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configTestCmd)
}
