// Package flow implements the tip flow as a closed set of states and the
// events that move between them. The frame and widget variants share the
// same machine and differ only in how input is mapped to events.
package flow

type Kind int

const (
	KindInitial Kind = iota
	KindSelectAmount
	KindCustomAmount
	KindAddMessage
	KindConfirm
	KindSuccess
	KindError
)

var kindNames = [...]string{
	KindInitial:      "initial",
	KindSelectAmount: "select_amount",
	KindCustomAmount: "custom_amount",
	KindAddMessage:   "add_message",
	KindConfirm:      "confirm",
	KindSuccess:      "success",
	KindError:        "error",
}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return "unknown"
	}
	return kindNames[k]
}

func ParseKind(s string) (Kind, bool) {
	for k, name := range kindNames {
		if name == s {
			return Kind(k), true
		}
	}
	return KindInitial, false
}

// State is one of Initial, SelectAmount, CustomAmount, AddMessage, Confirm,
// Success or Failed.
type State interface {
	Kind() Kind
	Creator() string
	isState()
}

type Initial struct {
	CreatorID string
}

type SelectAmount struct {
	CreatorID string
}

// CustomAmount carries the validation error of the last rejected input.
type CustomAmount struct {
	CreatorID string
	Error     string
}

type AddMessage struct {
	CreatorID string
	Amount    string
}

type Confirm struct {
	CreatorID string
	Amount    string
	Message   string
}

type Success struct {
	CreatorID string
	Amount    string
	Message   string
	TxHash    string
	ThankYou  string
	Warnings  []string
}

// Failed is the ERROR state.
type Failed struct {
	CreatorID string
	Amount    string
	Error     string
}

func (Initial) Kind() Kind      { return KindInitial }
func (SelectAmount) Kind() Kind { return KindSelectAmount }
func (CustomAmount) Kind() Kind { return KindCustomAmount }
func (AddMessage) Kind() Kind   { return KindAddMessage }
func (Confirm) Kind() Kind      { return KindConfirm }
func (Success) Kind() Kind      { return KindSuccess }
func (Failed) Kind() Kind       { return KindError }

func (s Initial) Creator() string      { return s.CreatorID }
func (s SelectAmount) Creator() string { return s.CreatorID }
func (s CustomAmount) Creator() string { return s.CreatorID }
func (s AddMessage) Creator() string   { return s.CreatorID }
func (s Confirm) Creator() string      { return s.CreatorID }
func (s Success) Creator() string      { return s.CreatorID }
func (s Failed) Creator() string       { return s.CreatorID }

func (Initial) isState()      {}
func (SelectAmount) isState() {}
func (CustomAmount) isState() {}
func (AddMessage) isState()   {}
func (Confirm) isState()      {}
func (Success) isState()      {}
func (Failed) isState()       {}

// Amount returns the tip amount carried by s, if any.
func Amount(s State) string {
	switch st := s.(type) {
	case AddMessage:
		return st.Amount
	case Confirm:
		return st.Amount
	case Success:
		return st.Amount
	case Failed:
		return st.Amount
	default:
		return ""
	}
}
