package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/kalambet/dolater/internal/api"
	"github.com/kalambet/dolater/internal/config"
	"github.com/kalambet/dolater/internal/content"
)

func splitTags(s string) []string {
	if s == "" {
		return nil
	}
	var tags []string
	for _, t := range strings.Split(s, ",") {
		if t = strings.TrimSpace(t); t != "" {
			tags = append(tags, t)
		}
	}
	return tags
}

// --- add ---

var addCmd = &cobra.Command{
	Use:   "add",
	Short: "Save a link or note for later",
	Long: `Save a link or note for later. It is classified in the background.

Examples:
  dolater add --url https://example.com/yoga-for-beginners
  dolater add --title "Emergency fund checklist" --notes "do this month" --category finance
  dolater add --url https://youtu.be/abc --platform youtube --tags video,cooking`,
	RunE: func(cmd *cobra.Command, args []string) error {
		title, _ := cmd.Flags().GetString("title")
		link, _ := cmd.Flags().GetString("url")
		notes, _ := cmd.Flags().GetString("notes")
		category, _ := cmd.Flags().GetString("category")
		platform, _ := cmd.Flags().GetString("platform")
		tagsStr, _ := cmd.Flags().GetString("tags")

		if title == "" && link == "" {
			return fmt.Errorf("one of --title or --url is required")
		}
		if category != "" && !content.Category(strings.ToLower(category)).Valid() {
			return fmt.Errorf("unknown category %q", category)
		}

		client, err := newAPIClient()
		if err != nil {
			return err
		}

		result, err := client.saveItem(cmd.Context(), content.Item{
			Title:     title,
			URL:       link,
			UserNotes: notes,
			Category:  content.Category(category),
			Platform:  platform,
			Tags:      splitTags(tagsStr),
		})
		if err != nil {
			return err
		}

		printSuccess("Saved %s (%s)", result.Item.Title, result.ID)
		return nil
	},
}

func init() {
	addCmd.Flags().String("title", "", "title of the content")
	addCmd.Flags().String("url", "", "link to the content")
	addCmd.Flags().String("notes", "", "personal notes")
	addCmd.Flags().String("category", "", "fitness, finance, knowledge, personal or work")
	addCmd.Flags().String("platform", "", "source platform, e.g. youtube")
	addCmd.Flags().String("tags", "", "comma-separated tags")
}

// --- list ---

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved content, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		asJSON, _ := cmd.Flags().GetBool("json")

		client, err := newAPIClient()
		if err != nil {
			return err
		}
		items, err := client.listItems(cmd.Context())
		if err != nil {
			return err
		}

		if asJSON {
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(items)
		}
		if len(items) == 0 {
			printWarning("Nothing saved yet. Try `dolater add --url ...`")
			return nil
		}
		for _, it := range items {
			printItem(cmd.OutOrStdout(), it, "")
		}
		return nil
	},
}

func init() {
	listCmd.Flags().Bool("json", false, "print items as JSON")
}

func printItem(w io.Writer, it content.Item, query string) {
	fmt.Fprintf(w, "%s %s\n",
		colorize(colorBold, highlight(it.Title, query)),
		colorize(colorDim, fmt.Sprintf("[%s · %s · %s]", it.Category.Label(), it.Priority, it.DateAdded.Format("2006-01-02"))))
	if it.Summary != "" {
		fmt.Fprintf(w, "  %s\n", highlight(it.Summary, query))
	}
	if it.HasURL() {
		fmt.Fprintf(w, "  %s\n", colorize(colorCyan, it.URL))
	}
	if len(it.Tags) > 0 {
		fmt.Fprintf(w, "  #%s\n", highlight(strings.Join(it.Tags, " #"), query))
	}
}

// --- search ---

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search saved content",
	Long: `Search saved content by text and filters. Matches are highlighted.

Examples:
  dolater search yoga
  dolater search budget --date week
  dolater search --category fitness --action watch`,
	RunE: func(cmd *cobra.Command, args []string) error {
		query := strings.Join(args, " ")
		filters := make(map[string]string)
		for _, name := range []string{"category", "platform", "date", "action"} {
			filters[name], _ = cmd.Flags().GetString(name)
		}

		client, err := newAPIClient()
		if err != nil {
			return err
		}
		result, err := client.search(cmd.Context(), query, filters)
		if err != nil {
			return err
		}

		if result.Count == 0 {
			printWarning("No matches")
			return nil
		}
		for _, it := range result.Results {
			printItem(cmd.OutOrStdout(), it, query)
		}
		printStatus("Matches", "%d", result.Count)
		return nil
	},
}

func init() {
	searchCmd.Flags().String("category", "", "category filter")
	searchCmd.Flags().String("platform", "", "platform filter")
	searchCmd.Flags().String("date", "", "today, week or month")
	searchCmd.Flags().String("action", "", "action type filter")
}

// --- ask ---

var askCmd = &cobra.Command{
	Use:   "ask <message>",
	Short: "Ask Genie about your saved content",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newAPIClient()
		if err != nil {
			return err
		}
		msg, err := client.ask(cmd.Context(), strings.Join(args, " "))
		if err != nil {
			return err
		}

		if msg.IsError {
			printWarning("Genie could not reach the AI service; this answer comes from your saves only")
		}
		fmt.Fprintln(cmd.OutOrStdout(), renderMarkdown(msg.Content))
		if len(msg.Suggestions) > 0 {
			fmt.Fprintln(cmd.OutOrStdout())
			for _, s := range msg.Suggestions {
				fmt.Fprintf(cmd.OutOrStdout(), "  %s %s\n", colorize(colorCyan, "→"), s)
			}
		}
		return nil
	},
}

// --- analyze ---

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Classify content without saving it",
	RunE: func(cmd *cobra.Command, args []string) error {
		title, _ := cmd.Flags().GetString("title")
		text, _ := cmd.Flags().GetString("text")
		link, _ := cmd.Flags().GetString("url")
		if title == "" && text == "" && link == "" {
			return fmt.Errorf("one of --title, --text or --url is required")
		}

		client, err := newAPIClient()
		if err != nil {
			return err
		}
		r, err := client.analyze(cmd.Context(), api.AnalyzeRequest{Title: title, Content: text, URL: link})
		if err != nil {
			return err
		}

		w := cmd.OutOrStdout()
		fmt.Fprintf(w, "%s %s\n", colorize(colorBold, "Summary:"), r.Summary)
		fmt.Fprintf(w, "%s %s\n", colorize(colorBold, "Category:"), r.Category)
		fmt.Fprintf(w, "%s %s\n", colorize(colorBold, "Priority:"), r.Priority)
		fmt.Fprintf(w, "%s %s\n", colorize(colorBold, "Action:"), r.ActionType)
		fmt.Fprintf(w, "%s %s\n", colorize(colorBold, "Tags:"), strings.Join(r.Tags, ", "))
		return nil
	},
}

func init() {
	analyzeCmd.Flags().String("title", "", "title of the content")
	analyzeCmd.Flags().String("text", "", "body text")
	analyzeCmd.Flags().String("url", "", "link; fetched when no text is given")
}

// --- import ---

var importCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Import saves from a YAML or JSON file",
	Long: `Import saves from a YAML or JSON file holding a list of items.

Example file:
  - title: Beginner kettlebell routine
    url: https://example.com/kettlebell
    category: fitness
    tags: [workout, strength]
  - title: Sourdough starter guide
    user_notes: feed daily`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("reading file: %w", err)
		}
		items, err := parseImport(data, filepath.Ext(args[0]))
		if err != nil {
			return err
		}
		if len(items) == 0 {
			printWarning("No items in %s", args[0])
			return nil
		}

		client, err := newAPIClient()
		if err != nil {
			return err
		}

		var saved int
		for i, it := range items {
			if _, err := client.saveItem(cmd.Context(), it); err != nil {
				printError("item %d (%s): %v", i+1, it.Title, err)
				continue
			}
			saved++
		}
		printSuccess("Imported %d of %d items", saved, len(items))
		if saved < len(items) {
			return fmt.Errorf("%d items failed to import", len(items)-saved)
		}
		return nil
	},
}

// parseImport decodes a list of items. JSON files are decoded strictly;
// anything else is read as YAML.
func parseImport(data []byte, ext string) ([]content.Item, error) {
	var items []content.Item
	if strings.EqualFold(ext, ".json") {
		if err := json.Unmarshal(data, &items); err != nil {
			return nil, fmt.Errorf("parsing JSON: %w", err)
		}
		return items, nil
	}
	if err := yaml.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("parsing YAML: %w", err)
	}
	return items, nil
}

// --- config ---

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show or update configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}

		for _, k := range config.ShowAll(cfg) {
			fmt.Fprintf(cmd.OutOrStdout(), "  %s = %s %s\n",
				colorize(colorBold, k.Key), k.Value, colorize(colorDim, "("+k.EnvVar+")"))
		}
		if cfg.LLM.APIKey != "" {
			fmt.Fprintf(cmd.OutOrStdout(), "  %s = %s\n", colorize(colorBold, "llm.api_key"), "(set)")
		}
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a configuration value",
	Long:  "Set a configuration value. Valid keys: " + strings.Join(config.ValidKeys(), ", "),
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		key, value := args[0], args[1]

		if err := config.SetKey(key, value); err != nil {
			return err
		}

		if key == "llm.api_key" {
			printSuccess("Stored %s", key)
			return nil
		}
		printSuccess("Set %s = %s", key, value)
		return nil
	},
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
}
