package export

import (
	"context"
	"fmt"
	"html"
	"io"
	"net/url"
	"strings"
)

// TenderLink returns the detail page address of a tender
func TenderLink(baseURL, id string) string {
	return strings.TrimSuffix(baseURL, "/") + "/tenders/" + url.PathEscape(id)
}

// ExportHTML exports tenders to Netscape bookmark format (HTML), one link
// per tender detail page
func ExportHTML(ctx context.Context, src Source, writer io.Writer, options ExportOptions) error {
	tenders, err := fetchTenders(ctx, src, options)
	if err != nil {
		return err
	}

	header := []string{
		"<!DOCTYPE NETSCAPE-Bookmark-file-1>",
		`<META HTTP-EQUIV="Content-Type" CONTENT="text/html; charset=UTF-8">`,
		"<TITLE>Tenders</TITLE>",
		"<H1>Tenders</H1>",
		"<DL><p>",
	}
	for _, line := range header {
		if _, err := fmt.Fprintln(writer, line); err != nil {
			return fmt.Errorf("failed to write HTML header: %w", err)
		}
	}

	for _, t := range tenders {
		link := html.EscapeString(TenderLink(options.BaseURL, t.CltrMnmtNo))
		var addDate int64
		if !t.AnnouncementDate.IsZero() {
			addDate = t.AnnouncementDate.Unix()
		}

		if _, err := fmt.Fprintf(writer, "    <DT><A HREF=\"%s\" ADD_DATE=\"%d\" TAGS=\"%s\">%s</A>\n",
			link, addDate, html.EscapeString(t.Status.String()), html.EscapeString(t.Title)); err != nil {
			return fmt.Errorf("failed to write tender entry: %w", err)
		}

		var desc []string
		if t.Organization != "" {
			desc = append(desc, t.Organization)
		}
		if t.MinBidPrice != nil {
			desc = append(desc, fmt.Sprintf("min bid %d", *t.MinBidPrice))
		}
		if !t.Deadline.IsZero() {
			desc = append(desc, "closes "+t.Deadline.String())
		}
		if len(desc) > 0 {
			if _, err := fmt.Fprintf(writer, "    <DD>%s\n", html.EscapeString(strings.Join(desc, " / "))); err != nil {
				return fmt.Errorf("failed to write description: %w", err)
			}
		}
	}

	if _, err := fmt.Fprintln(writer, "</DL><p>"); err != nil {
		return fmt.Errorf("failed to write HTML footer: %w", err)
	}

	return nil
}
