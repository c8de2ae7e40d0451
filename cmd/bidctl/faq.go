package main

import (
	"fmt"
	"os"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/rodstewart/bidctl/internal/models"
)

var (
	faqTitle   string
	faqContent string
)

var faqCmd = &cobra.Command{
	Use:   "faq",
	Short: "Read and write FAQ board posts",
}

var faqListCmd = &cobra.Command{
	Use:   "list",
	Short: "List FAQ posts",
	Args:  cobra.NoArgs,
	RunE:  runFAQList,
}

var faqGetCmd = &cobra.Command{
	Use:   "get <id>",
	Short: "Show a FAQ post",
	Args:  cobra.ExactArgs(1),
	RunE:  runFAQGet,
}

var faqCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Write a FAQ post",
	Long: `Write a new FAQ post.

Examples:
  bidctl faq create --title "Deposit refunds" --content "How long do refunds take?"`,
	Args: cobra.NoArgs,
	RunE: runFAQCreate,
}

var faqUpdateCmd = &cobra.Command{
	Use:   "update <id>",
	Short: "Edit one of your FAQ posts",
	Long: `Edit a FAQ post you wrote. Omitted fields keep their current value.

Examples:
  bidctl faq update 12 --content "Refunds take three business days."`,
	Args: cobra.ExactArgs(1),
	RunE: runFAQUpdate,
}

var faqDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete one of your FAQ posts",
	Args:  cobra.ExactArgs(1),
	RunE:  runFAQDelete,
}

func init() {
	rootCmd.AddCommand(faqCmd)
	faqCmd.AddCommand(faqListCmd)
	faqCmd.AddCommand(faqGetCmd)
	faqCmd.AddCommand(faqCreateCmd)
	faqCmd.AddCommand(faqUpdateCmd)
	faqCmd.AddCommand(faqDeleteCmd)

	for _, c := range []*cobra.Command{faqCreateCmd, faqUpdateCmd} {
		c.Flags().StringVarP(&faqTitle, "title", "t", "", "Post title")
		c.Flags().StringVarP(&faqContent, "content", "c", "", "Post content")
	}
}

func parseFAQID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid FAQ ID: %s (must be a positive number)", s)
	}
	return id, nil
}

func runFAQList(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}

	faqs, err := a.client.ListFAQs(cmd.Context())
	if err != nil {
		return err
	}
	if faqs == nil {
		faqs = []models.FAQ{}
	}

	if jsonOutput {
		return outputJSON(faqs)
	}
	if len(faqs) == 0 {
		fmt.Println("No FAQ posts found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTITLE\tAUTHOR\tDATE")
	fmt.Fprintln(w, "--\t-----\t------\t----")
	for _, f := range faqs {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\n", f.ID, truncate(f.Title, 50), f.AuthorUsername, f.CreatedAt)
	}
	w.Flush()
	return nil
}

func printFAQ(f *models.FAQ) {
	fmt.Printf("ID:       %d\n", f.ID)
	fmt.Printf("Title:    %s\n", f.Title)
	fmt.Printf("Author:   %s\n", f.AuthorUsername)
	fmt.Printf("Created:  %s\n", f.CreatedAt)
	fmt.Printf("Modified: %s\n", f.UpdatedAt)
	fmt.Printf("\n%s\n", f.Content)
}

func runFAQGet(cmd *cobra.Command, args []string) error {
	id, err := parseFAQID(args[0])
	if err != nil {
		return err
	}
	a, err := newApp()
	if err != nil {
		return err
	}
	if err := a.requireLogin(); err != nil {
		return err
	}

	faq, err := a.client.GetFAQ(cmd.Context(), id)
	if err != nil {
		return err
	}
	if jsonOutput {
		return outputJSON(faq)
	}
	printFAQ(faq)
	return nil
}

func runFAQCreate(cmd *cobra.Command, args []string) error {
	if faqTitle == "" || faqContent == "" {
		return fmt.Errorf("--title and --content are required")
	}
	a, err := newApp()
	if err != nil {
		return err
	}
	if err := a.requireLogin(); err != nil {
		return err
	}

	faq, err := a.client.CreateFAQ(cmd.Context(), models.FAQRequest{Title: faqTitle, Content: faqContent})
	if err != nil {
		return err
	}
	if jsonOutput {
		return outputJSON(faq)
	}
	fmt.Printf("✓ FAQ created: %s\n", faq.Title)
	fmt.Printf("  ID: %d\n", faq.ID)
	return nil
}

func runFAQUpdate(cmd *cobra.Command, args []string) error {
	id, err := parseFAQID(args[0])
	if err != nil {
		return err
	}
	if !cmd.Flags().Changed("title") && !cmd.Flags().Changed("content") {
		return fmt.Errorf("no updates specified. Use --title or --content")
	}
	a, err := newApp()
	if err != nil {
		return err
	}
	if err := a.requireLogin(); err != nil {
		return err
	}

	current, err := a.client.GetFAQ(cmd.Context(), id)
	if err != nil {
		return err
	}
	req := models.FAQRequest{Title: current.Title, Content: current.Content}
	if cmd.Flags().Changed("title") {
		req.Title = faqTitle
	}
	if cmd.Flags().Changed("content") {
		req.Content = faqContent
	}

	faq, err := a.client.UpdateFAQ(cmd.Context(), id, req)
	if err != nil {
		return err
	}
	if jsonOutput {
		return outputJSON(faq)
	}
	fmt.Printf("✓ FAQ %d updated\n", faq.ID)
	return nil
}

func runFAQDelete(cmd *cobra.Command, args []string) error {
	id, err := parseFAQID(args[0])
	if err != nil {
		return err
	}
	a, err := newApp()
	if err != nil {
		return err
	}
	if err := a.requireLogin(); err != nil {
		return err
	}

	if err := a.client.DeleteFAQ(cmd.Context(), id); err != nil {
		return err
	}
	if jsonOutput {
		return outputJSON(map[string]interface{}{"status": "deleted", "id": id})
	}
	fmt.Printf("✓ FAQ %d deleted\n", id)
	return nil
}
