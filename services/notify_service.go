package services

import (
	"fmt"
	"log"

	pubnub "github.com/pubnub/go"

	"poap-system/models"
)

// NotifyService pushes confirmed-operation notifications to the
// identity's channel. A nil service or nil PubNub client disables
// publishing; write operations never depend on it.
type NotifyService struct {
	pubnub *pubnub.PubNub
}

func NewNotifyService(pn *pubnub.PubNub) *NotifyService {
	return &NotifyService{pubnub: pn}
}

func (n *NotifyService) BadgeClaimed(attendee string, badge *models.Badge) {
	n.publish(attendee, map[string]interface{}{
		"type":         "badge_claimed",
		"event_id":     badge.EventID,
		"event_name":   badge.EventName,
		"badge_number": badge.BadgeNumber,
		"minted_at":    badge.MintedAt,
	})
}

func (n *NotifyService) EventCreated(organizer string, evt *models.Event) {
	n.publish(organizer, map[string]interface{}{
		"type":       "event_created",
		"event_id":   evt.ID,
		"event_name": evt.Name,
		"start_time": evt.StartTime,
		"end_time":   evt.EndTime,
	})
}

func (n *NotifyService) publish(identity string, message map[string]interface{}) {
	if n == nil || n.pubnub == nil {
		return
	}

	channel := fmt.Sprintf("user-%s", identity)
	_, _, err := n.pubnub.Publish().
		Channel(channel).
		Message(message).
		Execute()
	if err != nil {
		log.Printf("notify: publish to %s: %v", channel, err)
	}
}
