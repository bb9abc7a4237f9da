package notifier

import (
	"fmt"
	"log"
	"strings"

	"github.com/bwmarrin/discordgo"
	"github.com/mdulin/tandem/internal/models"
)

type Notifier interface {
	NotifyWeekComplete(eventName string, weekNumber int, participants []string) error
	NotifyRSVP(event models.PartyEvent, guest models.PartyGuest) error
}

type DiscordNotifier struct {
	session   *discordgo.Session
	channelID string
}

func NewDiscordNotifier(session *discordgo.Session, channelID string) *DiscordNotifier {
	return &DiscordNotifier{
		session:   session,
		channelID: channelID,
	}
}

func (n *DiscordNotifier) send(message string) error {
	if n.session == nil {
		return fmt.Errorf("discord session is nil")
	}
	if n.channelID == "" {
		return fmt.Errorf("discord channel ID is empty")
	}

	_, err := n.session.ChannelMessageSend(n.channelID, message)
	if err != nil {
		log.Printf("Failed to send discord message: %v", err)
		return err
	}
	return nil
}

func (n *DiscordNotifier) NotifyWeekComplete(eventName string, weekNumber int, participants []string) error {
	message := fmt.Sprintf("🎉 **Training Update**\n**Event:** %s\n**Week %d complete!** %s finished every workout 🏃💪",
		eventName,
		weekNumber,
		strings.Join(participants, " and "),
	)
	return n.send(message)
}

func (n *DiscordNotifier) NotifyRSVP(event models.PartyEvent, guest models.PartyGuest) error {
	status := "is coming 🎉"
	if guest.RSVP == models.RSVPNo {
		status = "can't make it 😢"
	}

	noteStr := ""
	if guest.Note != "" {
		noteStr = fmt.Sprintf("\n**Note:** %s", guest.Note)
	}

	message := fmt.Sprintf("📬 **RSVP Update**\n**Event:** %s (%s)\n**Guest:** %s %s%s",
		event.Title,
		event.Date,
		guest.Name,
		status,
		noteStr,
	)
	return n.send(message)
}
