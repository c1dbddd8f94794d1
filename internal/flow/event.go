package flow

// Event is an input to the machine.
type Event interface {
	isEvent()
}

type (
	Start struct{ CreatorID string }
	// ChoosePreset picks one of the offered amounts.
	ChoosePreset struct{ Amount string }
	ChooseCustom struct{}
	EnterCustom  struct{ Input string }
	EnterMessage struct{ Message string }
	SkipMessage  struct{}
	Back         struct{}
	// Submit confirms the tip. TxHash is the transaction the fan's wallet
	// broadcast, FanAddress the wallet that signed it.
	Submit struct {
		FanAddress string
		TxHash     string
	}
	TipAgain struct{}
	TryAgain struct{}
	// Stay re-renders the current state.
	Stay struct{}
)

func (Start) isEvent()        {}
func (ChoosePreset) isEvent() {}
func (ChooseCustom) isEvent() {}
func (EnterCustom) isEvent()  {}
func (EnterMessage) isEvent() {}
func (SkipMessage) isEvent()  {}
func (Back) isEvent()         {}
func (Submit) isEvent()       {}
func (TipAgain) isEvent()     {}
func (TryAgain) isEvent()     {}
func (Stay) isEvent()         {}
