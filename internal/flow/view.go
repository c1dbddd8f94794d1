package flow

import "strings"

// CreatorCard is the creator data a view shows.
type CreatorCard struct {
	Name     string
	ImageURL string
}

// Describe returns the title and subtitle shown for s, amounts labelled
// with currency.
func Describe(s State, creatorName, currency string) (string, string) {
	if creatorName == "" {
		creatorName = "Creator"
	}
	if currency == "" {
		currency = "ETH"
	}
	switch st := s.(type) {
	case Initial:
		return "Tip Creator on Base", "Support your favorite creators with " + currency + " tips"
	case SelectAmount:
		return "Select Tip Amount", "Choose how much " + currency + " to send"
	case CustomAmount:
		if st.Error != "" {
			return "Enter Custom Amount", st.Error
		}
		return "Enter Custom Amount", "Type your preferred " + currency + " amount"
	case AddMessage:
		return "Add a Message", "Tipping " + st.Amount + " " + currency
	case Confirm:
		return "Confirm Your Tip", "Send " + st.Amount + " " + currency + " to " + creatorName
	case Success:
		return "Tip Sent Successfully!", "You sent " + st.Amount + " " + currency + " to " + creatorName
	case Failed:
		if msg := strings.TrimSpace(st.Error); msg != "" {
			return "Error Processing Tip", msg
		}
		return "Error Processing Tip", "Please try again"
	default:
		return "Tip Creator on Base", ""
	}
}
