package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/askwork/internal/core/domain"
)

var (
	classifyMailbox bool
	classifyLimit   int
)

var classifyCmd = &cobra.Command{
	Use:   "classify [file]",
	Short: "Triage messages by priority",
	Long: `Assigns each message a priority (critical, important, normal, low) and a
category, and prints them most urgent first.

Messages are read as a JSON array from the file, or from standard input
when the file is "-" or omitted:

  [{"id": "m1", "subject": "Outage", "from": "ops@example.com",
    "to": ["me@example.com"], "date": "2024-06-01T09:00:00Z"}]

With --mailbox the latest messages are fetched from your mailbox instead.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runClassify,
}

func init() {
	classifyCmd.Flags().BoolVar(&classifyMailbox, "mailbox", false, "classify the latest messages from your mailbox")
	classifyCmd.Flags().IntVarP(&classifyLimit, "limit", "n", 20, "number of mailbox messages to fetch")
	rootCmd.AddCommand(classifyCmd)
}

// messageJSON is the file format accepted by classify.
type messageJSON struct {
	ID       string    `json:"id"`
	Subject  string    `json:"subject"`
	From     string    `json:"from"`
	Snippet  string    `json:"snippet"`
	Date     time.Time `json:"date"`
	ThreadID string    `json:"thread_id"`
	To       []string  `json:"to"`
	Cc       []string  `json:"cc"`
}

func runClassify(cmd *cobra.Command, args []string) error {
	if classifierService == nil {
		return errors.New("classifier service not configured")
	}

	var (
		messages []domain.InboundMessage
		err      error
	)
	if classifyMailbox {
		messages, err = fetchMailbox(cmd)
	} else {
		messages, err = readMessages(cmd, args)
	}
	if err != nil {
		return err
	}

	if len(messages) == 0 {
		cmd.Println("No messages to classify.")
		return nil
	}

	classified := make([]domain.ClassifiedMessage, 0, len(messages))
	for _, msg := range messages {
		classified = append(classified, classifierService.Classify(msg))
	}

	for _, msg := range classifierService.SortByPriority(classified) {
		cmd.Printf("[%s] %s\n", msg.Priority, msg.Subject)
		cmd.Printf("      From: %s\n", msg.From)
		cmd.Printf("      %s: %s\n", msg.Category, msg.PriorityReason)
	}
	return nil
}

func fetchMailbox(cmd *cobra.Command) ([]domain.InboundMessage, error) {
	if mailService == nil {
		return nil, errors.New("mail service not configured")
	}

	ctx := cmd.Context()
	requester, err := resolveRequester(ctx)
	if err != nil {
		return nil, err
	}
	token := externalToken.For(requester.UserID)
	if token == "" {
		return nil, fmt.Errorf("no mailbox access for %s", requester.UserID)
	}

	records, err := mailService.ListMessages(ctx, token, classifyLimit)
	if err != nil {
		return nil, fmt.Errorf("fetching mailbox: %w", err)
	}

	messages := make([]domain.InboundMessage, len(records))
	for i := range records {
		messages[i] = records[i].ToInboundMessage()
	}
	return messages, nil
}

func readMessages(cmd *cobra.Command, args []string) ([]domain.InboundMessage, error) {
	var r io.Reader = cmd.InOrStdin()
	if len(args) == 1 && args[0] != "-" {
		f, err := os.Open(args[0])
		if err != nil {
			return nil, fmt.Errorf("opening messages: %w", err)
		}
		defer f.Close()
		r = f
	}

	var raw []messageJSON
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, fmt.Errorf("%w: decoding messages: %v", domain.ErrInvalidInput, err)
	}

	messages := make([]domain.InboundMessage, len(raw))
	for i, m := range raw {
		messages[i] = domain.InboundMessage{
			ID:       m.ID,
			Subject:  m.Subject,
			From:     m.From,
			Snippet:  m.Snippet,
			Date:     m.Date,
			ThreadID: m.ThreadID,
			To:       m.To,
			Cc:       m.Cc,
		}
	}
	return messages, nil
}
