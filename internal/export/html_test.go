package export

import (
	"bytes"
	"context"
	"strings"
	"testing"
)

func TestTenderLink(t *testing.T) {
	if got := TenderLink("http://bid.example.com/", "A 1"); got != "http://bid.example.com/tenders/A%201" {
		t.Errorf("unexpected link %s", got)
	}
}

func TestExportHTML(t *testing.T) {
	client, server := newClient(t, 2)
	server.SetFavorite("T-2")

	var buf bytes.Buffer
	err := ExportHTML(context.Background(), client, &buf, ExportOptions{
		Source:  SourceFavorites,
		BaseURL: "http://bid.example.com",
	})
	if err != nil {
		t.Fatalf("ExportHTML() failed: %v", err)
	}

	out := buf.String()
	if !strings.HasPrefix(out, "<!DOCTYPE NETSCAPE-Bookmark-file-1>") {
		t.Error("Expected Netscape bookmark header")
	}
	if !strings.Contains(out, `HREF="http://bid.example.com/tenders/T-2"`) {
		t.Errorf("Expected link to T-2, got:\n%s", out)
	}
	if strings.Contains(out, "/tenders/T-1\"") {
		t.Error("Expected only favorites to be exported")
	}
	if !strings.Contains(out, "<DD>Public Auction / min bid 2000") {
		t.Errorf("Expected description line, got:\n%s", out)
	}
	if !strings.HasSuffix(out, "</DL><p>\n") {
		t.Error("Expected closing list tag")
	}
}
