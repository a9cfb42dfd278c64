package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/hyperjump/tansaku/internal/models"
	"github.com/hyperjump/tansaku/internal/search"
	"golang.org/x/term"
)

// interactiveLimit caps how many matches one query round lists.
const interactiveLimit = 20

// InteractiveTerminal reports whether both stdin and stdout are terminals.
// The picker refuses to run against pipes.
func InteractiveTerminal() bool {
	return term.IsTerminal(int(os.Stdin.Fd())) && term.IsTerminal(int(os.Stdout.Fd()))
}

// RunInteractive drives the terminal picker: type a query, pick a document
// by number, read it, repeat. A blank query lists the whole catalog. Returns
// nil when the user quits or input ends.
func RunInteractive(ctx context.Context, engine *search.Engine, in io.Reader, out io.Writer) error {
	reader := bufio.NewReader(in)
	fmt.Fprintln(out, "tansaku interactive mode")
	fmt.Fprintln(out, "Type a search query and pick a document by number.")
	fmt.Fprintln(out, "Type `q` to quit.")
	fmt.Fprintln(out)

	for {
		query, err := promptLine(reader, out, "Search query (blank = all, q = quit): ")
		if err != nil {
			return quitOnEOF(out, err)
		}
		if isQuit(query) {
			fmt.Fprintln(out, "Goodbye.")
			return nil
		}

		matches, err := interactiveMatches(ctx, engine, query)
		if err != nil {
			return err
		}
		if len(matches) == 0 {
			fmt.Fprintf(out, "No documents matched %q.\n\n", query)
			continue
		}

		fmt.Fprintln(out)
		fmt.Fprintln(out, "Matches:")
		for i, doc := range matches {
			category := doc.Category
			if category == "" {
				category = "uncategorized"
			}
			fmt.Fprintf(out, "%2d. %s [%s]\n", i+1, doc.Title, category)
		}

		selection, err := promptLine(reader, out, "\nSelect # (b = back, q = quit): ")
		if err != nil {
			return quitOnEOF(out, err)
		}
		if isQuit(selection) {
			fmt.Fprintln(out, "Goodbye.")
			return nil
		}
		if strings.EqualFold(selection, "b") || strings.EqualFold(selection, "back") {
			fmt.Fprintln(out)
			continue
		}

		n, convErr := strconv.Atoi(selection)
		if convErr != nil || n < 1 || n > len(matches) {
			fmt.Fprintln(out, "Invalid selection.")
			fmt.Fprintln(out)
			continue
		}
		writeDocumentText(out, matches[n-1])

		next, err := promptLine(reader, out, "Press Enter to continue, or `q` to quit: ")
		if err != nil {
			return quitOnEOF(out, err)
		}
		if isQuit(next) {
			fmt.Fprintln(out, "Goodbye.")
			return nil
		}
		fmt.Fprintln(out)
	}
}

// interactiveMatches resolves one query round: the whole catalog for a blank
// query, otherwise the engine's top results.
func interactiveMatches(ctx context.Context, engine *search.Engine, query string) ([]*models.Document, error) {
	if query == "" {
		docs := engine.Documents()
		if len(docs) > interactiveLimit {
			docs = docs[:interactiveLimit]
		}
		return docs, nil
	}
	response, err := engine.Search(ctx, models.SearchQuery{Query: query, Limit: interactiveLimit})
	if err != nil {
		return nil, err
	}
	docs := make([]*models.Document, 0, len(response.Results))
	for _, result := range response.Results {
		if doc, ok := engine.Document(result.ID); ok {
			docs = append(docs, doc)
		}
	}
	return docs, nil
}

func promptLine(reader *bufio.Reader, out io.Writer, prompt string) (string, error) {
	fmt.Fprint(out, prompt)
	line, err := reader.ReadString('\n')
	if err != nil && (line == "" || !errors.Is(err, io.EOF)) {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

func isQuit(input string) bool {
	return strings.EqualFold(input, "q") || strings.EqualFold(input, "quit")
}

// quitOnEOF turns end of input into a clean exit so piped sessions terminate
// without an error.
func quitOnEOF(out io.Writer, err error) error {
	if errors.Is(err, io.EOF) {
		fmt.Fprintln(out)
		return nil
	}
	return err
}
