package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/filxconnect/cli/pkg/api"
	"github.com/filxconnect/cli/pkg/logger"
	"github.com/filxconnect/cli/pkg/output"
	"github.com/filxconnect/cli/pkg/service"
	"github.com/filxconnect/cli/pkg/session"
)

var messageCmd = &cobra.Command{
	Use:     "messages",
	Aliases: []string{"msg"},
	Short:   "Direct messages",
	Long:    "List conversations and chat with your connections",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireSession(); err != nil {
			return err
		}

		messageService := service.NewMessageService()
		contacts, err := messageService.Contacts(cmd.Context())
		if err != nil {
			return err
		}
		if len(contacts) == 0 {
			fmt.Println("No conversations yet.")
			return nil
		}

		rows := make([][]string, 0, len(contacts))
		for _, c := range contacts {
			unread := ""
			if c.Unread > 0 {
				unread = fmt.Sprintf("%d", c.Unread)
			}
			rows = append(rows, []string{
				c.ID, c.Name, truncate(c.LastMessage, 40),
				output.RelativeTime(c.LastTime), unread,
			})
		}
		return output.PrintList(contacts, []string{"ID", "Name", "Last message", "When", "Unread"}, rows)
	},
}

var messageChat bool

var messageOpenCmd = &cobra.Command{
	Use:   "open [user-id]",
	Short: "Open a conversation",
	Long:  "Show the conversation with a user and mark incoming messages read. Without a user id, resumes the conversation with the last profile you viewed.",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireSession(); err != nil {
			return err
		}

		targetID := ""
		if len(args) == 1 {
			targetID = args[0]
		} else {
			id, _, _, err := session.TakeMessageTarget()
			if err != nil {
				return err
			}
			if id == "" {
				return fmt.Errorf("no recent contact, pass a user id")
			}
			targetID = id
		}

		messageService := service.NewMessageService()
		contact, conversation, err := messageService.SelectContact(cmd.Context(), targetID)
		if err != nil {
			return err
		}

		// A bare "profile" afterwards opens this person.
		if err := session.SetViewUser(contact.ID); err != nil {
			logger.Warn("Failed to save view-user hint", "error", err)
		}

		fmt.Printf("Conversation with %s\n\n", contact.Name)
		displayConversation(conversation, contact.Name)

		if !messageChat {
			return nil
		}
		return chatLoop(cmd, messageService, contact)
	},
}

var messageSendCmd = &cobra.Command{
	Use:   "send <user-id> <text>",
	Short: "Send a direct message",
	Args:  cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireSession(); err != nil {
			return err
		}

		messageService := service.NewMessageService()
		if _, _, err := messageService.SelectContact(cmd.Context(), args[0]); err != nil {
			return err
		}
		if _, err := messageService.SendMessage(cmd.Context(), strings.Join(args[1:], " ")); err != nil {
			return err
		}
		output.PrintSuccess("Message sent")
		return nil
	},
}

// chatLoop reads lines from stdin and sends each as a message while a
// background watcher repaints the conversation as new messages arrive.
func chatLoop(cmd *cobra.Command, messageService *service.MessageService, contact *service.Contact) error {
	output.PrintInfo("Chat mode. Type a message and press Enter. Ctrl+D to leave.")

	go messageService.Watch(cmd.Context(), func(_ []service.Contact, conversation []api.Message) {
		fmt.Println()
		displayConversation(conversation, contact.Name)
		fmt.Print("> ")
	})

	scanner := bufio.NewScanner(os.Stdin)
	fmt.Print("> ")
	for scanner.Scan() {
		text := strings.TrimSpace(scanner.Text())
		if text == "" {
			fmt.Print("> ")
			continue
		}
		if _, err := messageService.SendMessage(cmd.Context(), text); err != nil {
			output.PrintError("%v", err)
		}
		fmt.Print("> ")
	}
	fmt.Println()
	return scanner.Err()
}

func displayConversation(conversation []api.Message, contactName string) {
	me := session.CurrentUserID()
	for _, m := range conversation {
		who := contactName
		if m.SenderID == me {
			who = "you"
		}
		fmt.Printf("[%s] %s: %s\n", output.RelativeTime(m.CreatedAt), who, m.Content)
	}
}

// truncate shortens previews by rune count so multi-byte characters
// never get split.
func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max-3]) + "..."
}

func init() {
	messageOpenCmd.Flags().BoolVar(&messageChat, "chat", false, "Stay in an interactive chat session")

	messageCmd.AddCommand(messageOpenCmd)
	messageCmd.AddCommand(messageSendCmd)
}
