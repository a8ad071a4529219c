// Package gemini implements AI-assisted extraction over scraped pages
// using Google Gemini.
package gemini

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/fwojciec/harvest"
	"google.golang.org/genai"
)

const model = "gemini-2.5-flash"

// Ensure Asker implements harvest.Asker at compile time.
var _ harvest.Asker = (*Asker)(nil)

// Asker implements harvest.Asker using Google Gemini.
type Asker struct {
	client *genai.Client
}

// NewAsker creates a new Asker.
func NewAsker(client *genai.Client) *Asker {
	return &Asker{client: client}
}

// Ask answers a natural language query about scraped pages. When schema
// is non-empty the model is instructed to answer with a JSON object
// containing exactly those fields.
func (a *Asker) Ask(ctx context.Context, query string, pages []*harvest.PageContent, schema map[string]string) (string, error) {
	if query == "" {
		return "", harvest.Errorf(harvest.EINVALID, "query required")
	}
	if len(pages) == 0 {
		return "", harvest.Errorf(harvest.EINVALID, "at least one page required")
	}

	prompt := BuildUserPrompt(pages, query, schema)
	config := BuildConfig(len(schema) > 0)

	result, err := a.client.Models.GenerateContent(ctx, model,
		[]*genai.Content{{
			Parts: []*genai.Part{{Text: prompt}},
		}},
		config,
	)
	if err != nil {
		return "", err
	}
	if result == nil {
		return "", harvest.Errorf(harvest.EINTERNAL, "gemini returned nil result")
	}

	return result.Text(), nil
}

// BuildConfig returns the GenerateContentConfig for Gemini API calls.
// Structured extraction forces a JSON response.
func BuildConfig(structured bool) *genai.GenerateContentConfig {
	temp := float32(0.2)
	cfg := &genai.GenerateContentConfig{
		SystemInstruction: &genai.Content{
			Parts: []*genai.Part{{
				Text: "You are a data extraction assistant working on scraped web pages. Answer based only on the page content provided. If the answer is not in the pages, say so.",
			}},
		},
		Temperature: &temp,
	}
	if structured {
		cfg.ResponseMIMEType = "application/json"
	}
	return cfg
}

// BuildUserPrompt builds the user prompt containing page content, the
// query, and the optional extraction schema.
func BuildUserPrompt(pages []*harvest.PageContent, query string, schema map[string]string) string {
	var sb strings.Builder
	sb.WriteString("<pages>\n")
	for i, page := range pages {
		sb.WriteString("<page>\n")
		fmt.Fprintf(&sb, "<index>%d</index>\n", i+1)
		fmt.Fprintf(&sb, "<source>%s</source>\n", page.URL)
		fmt.Fprintf(&sb, "<content>%s</content>\n", page.Text)
		sb.WriteString("</page>\n")
	}
	sb.WriteString("</pages>\n\n")

	if len(schema) > 0 {
		sb.WriteString("Extract a JSON object with exactly these fields:\n")
		fields := make([]string, 0, len(schema))
		for name := range schema {
			fields = append(fields, name)
		}
		sort.Strings(fields)
		for _, name := range fields {
			fmt.Fprintf(&sb, "- %s: %s\n", name, schema[name])
		}
		sb.WriteString("\n")
	}

	fmt.Fprintf(&sb, "Query: %s", query)
	return sb.String()
}
