package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/custodia-labs/askwork/internal/core/domain"
)

const askPrompt = "ask> "

var (
	askMaxSources int
	askJSON       bool
)

// stdinIsTerminal is replaced in tests.
var stdinIsTerminal = func() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}

var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Ask a question about your work",
	Long: `Answers a question from the data you are allowed to see: your issues,
calendar, mail, team directory and company knowledge.

Without a question, reads it from standard input. On an interactive
terminal this starts a conversation instead; type "exit" or press Ctrl-D
to leave.`,
	RunE: runAsk,
}

func init() {
	askCmd.Flags().IntVarP(&askMaxSources, "max-sources", "n", domain.DefaultMaxSources, "maximum number of sources to cite")
	askCmd.Flags().BoolVar(&askJSON, "json", false, "output the answer as JSON")
	rootCmd.AddCommand(askCmd)
}

func runAsk(cmd *cobra.Command, args []string) error {
	if answerService == nil {
		return errors.New("answer service not configured")
	}

	ctx := cmd.Context()
	requester, err := resolveRequester(ctx)
	if err != nil {
		return err
	}

	question := strings.TrimSpace(strings.Join(args, " "))
	if question == "" && stdinIsTerminal() {
		return runConversation(ctx, cmd, requester)
	}

	if question == "" {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return fmt.Errorf("reading question: %w", err)
		}
		question = strings.TrimSpace(string(data))
	}
	if question == "" {
		return errors.New("no question given")
	}

	result, err := answerService.Answer(ctx, domain.AnswerRequest{
		Query:         question,
		Requester:     requester,
		MaxSources:    askMaxSources,
		ExternalToken: externalToken.For(requester.UserID),
	})
	if err != nil {
		return fmt.Errorf("ask failed: %w", err)
	}

	if askJSON {
		return outputAnswerJSON(cmd.OutOrStdout(), result)
	}
	printAnswer(cmd.OutOrStdout(), result)
	return nil
}

// lineReader reads one line of user input.
type lineReader interface {
	ReadLine() (string, error)
}

// runConversation puts the terminal in raw mode and runs an
// interactive session with line editing and history.
func runConversation(ctx context.Context, cmd *cobra.Command, requester *domain.RequesterContext) error {
	fd := int(os.Stdin.Fd())
	state, err := term.MakeRaw(fd)
	if err != nil {
		return fmt.Errorf("entering raw mode: %w", err)
	}
	defer term.Restore(fd, state) //nolint:errcheck

	screen := struct {
		io.Reader
		io.Writer
	}{os.Stdin, cmd.OutOrStdout()}
	t := term.NewTerminal(screen, askPrompt)

	fmt.Fprintf(t, "Hi %s. Ask about your work, or type exit to leave.\n", displayName(requester))
	return converse(ctx, t, t, requester)
}

// converse answers questions until exit or end of input. Each answer
// is added to the history sent with the next question.
func converse(ctx context.Context, in lineReader, out io.Writer, requester *domain.RequesterContext) error {
	var history []domain.ConversationTurn
	for {
		line, err := in.ReadLine()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}

		question := strings.TrimSpace(line)
		switch strings.ToLower(question) {
		case "":
			continue
		case "exit", "quit":
			return nil
		}

		result, err := answerService.Answer(ctx, domain.AnswerRequest{
			Query:         question,
			Requester:     requester,
			History:       history,
			MaxSources:    askMaxSources,
			ExternalToken: externalToken.For(requester.UserID),
		})
		if err != nil {
			return fmt.Errorf("ask failed: %w", err)
		}

		printAnswer(out, result)
		fmt.Fprintln(out)
		history = append(history,
			domain.ConversationTurn{Role: domain.RoleUser, Content: question},
			domain.ConversationTurn{Role: domain.RoleAssistant, Content: result.Answer},
		)
	}
}

func printAnswer(w io.Writer, result *domain.AnswerResult) {
	fmt.Fprintln(w, result.Answer)

	if len(result.Sources) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Sources:")
		for i, src := range result.Sources {
			fmt.Fprintf(w, "  [%d] %s (%s)\n", i+1, src.Title, src.Source)
			if src.URL != "" {
				fmt.Fprintf(w, "      %s\n", src.URL)
			}
		}
	}

	if result.ScopeDescription != "" {
		fmt.Fprintln(w)
		fmt.Fprintln(w, result.ScopeDescription)
	}
}

type answerJSON struct {
	Answer           string            `json:"answer"`
	Sources          []domain.Citation `json:"sources"`
	ScopeDescription string            `json:"scope_description"`
	TokensUsed       int               `json:"tokens_used"`
	ProcessingTimeMs int64             `json:"processing_time_ms"`
	Fallback         bool              `json:"fallback"`
}

func outputAnswerJSON(w io.Writer, result *domain.AnswerResult) error {
	data, err := json.MarshalIndent(answerJSON{
		Answer:           result.Answer,
		Sources:          result.Sources,
		ScopeDescription: result.ScopeDescription,
		TokensUsed:       result.TokensUsed,
		ProcessingTimeMs: result.ProcessingTimeMs(),
		Fallback:         result.Fallback,
	}, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal answer: %w", err)
	}
	fmt.Fprintln(w, string(data))
	return nil
}

func displayName(r *domain.RequesterContext) string {
	if r.DisplayName != "" {
		return r.DisplayName
	}
	return r.UserID
}
