package usecase

import (
	"fmt"
	"strings"
	"time"

	"github.com/echoai/recommender/internal/domain"
)

// greetingZone is the fixed offset greetings are computed in (UTC+5)
var greetingZone = time.FixedZone("UTC+5", 5*60*60)

const itemSeparator = ", "

// Sentences handed to speech synthesis and the UI
const (
	matchingTemplate     = "Here are the items that you requested: %s. Let me know if you're interested in adding these to your cart."
	noMatchingMessage    = "I couldn't find the item you asked for. Let me know if you'd like to try something else."
	otherTemplate        = "Apart from the items I recommended, here are other items that you might be interested in buying: %s."
	noOtherMessage       = "I don't have any additional items to suggest right now."
	recommendTemplate    = "Here are some items I recommend: [%s]. Let me know if you'd like to add any of these to your cart!"
	noRecommendMessage   = "I couldn't find any recommendations for you right now. Let me know if you'd like to order something else?"
	greetingTemplate     = "Hello, Good %s, What would you like to order today?"
	orderPlacedMessage   = "Thank you for shopping with us, your order has been placed. See you next time"
	orderDeclinedMessage = "Let me know if you would like some recommendations on other items you are considering to buy"
	orderSummaryHeader   = "Order completed! Items purchased:"
	emptyCartMessage     = "Your cart is empty. Add some items before completing the order."

	// UnavailableMessage is spoken when the recommendation service cannot be reached
	UnavailableMessage = "I'm having trouble getting recommendations right now."
)

// RenderMatching announces the items that matched the request
func RenderMatching(matching []string) string {
	if len(matching) == 0 {
		return noMatchingMessage
	}
	return fmt.Sprintf(matchingTemplate, strings.Join(matching, itemSeparator))
}

// RenderOther offers the remaining items as alternatives
func RenderOther(other []string) string {
	if len(other) == 0 {
		return noOtherMessage
	}
	return fmt.Sprintf(otherTemplate, strings.Join(other, itemSeparator))
}

// RenderRecommendations announces a whole recommendation list in one sentence
func RenderRecommendations(items []string) string {
	if len(items) == 0 {
		return noRecommendMessage
	}
	return fmt.Sprintf(recommendTemplate, strings.Join(items, itemSeparator))
}

// RenderOrderIntent answers a user who did or did not agree to place the order
func RenderOrderIntent(confirmed bool) string {
	if confirmed {
		return orderPlacedMessage
	}
	return orderDeclinedMessage
}

// RenderOrderSummary lists purchased items, one bullet per line
func RenderOrderSummary(items []string) string {
	if len(items) == 0 {
		return emptyCartMessage
	}

	var b strings.Builder
	b.WriteString(orderSummaryHeader)
	for _, item := range items {
		b.WriteString("\n• ")
		b.WriteString(item)
	}
	return b.String()
}

// BandFor classifies an instant into a period of the day at UTC+5.
// Lower bounds are inclusive: 12:00:00 is Noon, 21:00:00 is Night.
func BandFor(t time.Time) domain.Band {
	switch hour := t.In(greetingZone).Hour(); {
	case hour >= 5 && hour < 12:
		return domain.BandMorning
	case hour == 12:
		return domain.BandNoon
	case hour >= 13 && hour < 17:
		return domain.BandAfternoon
	case hour >= 17 && hour < 21:
		return domain.BandEvening
	default:
		return domain.BandNight
	}
}

// GreetingFor builds the greeting for an instant
func GreetingFor(t time.Time) domain.Greeting {
	band := BandFor(t)
	return domain.Greeting{
		Band:      band,
		Message:   fmt.Sprintf(greetingTemplate, band),
		LocalTime: t.In(greetingZone),
	}
}
