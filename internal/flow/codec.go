package flow

import (
	"encoding/json"
	"net/url"
)

// Snapshot is the wire form of a State.
type Snapshot struct {
	State     string   `json:"state"`
	CreatorID string   `json:"creatorId,omitempty"`
	Amount    string   `json:"amount,omitempty"`
	Message   string   `json:"message,omitempty"`
	TxHash    string   `json:"transactionHash,omitempty"`
	Error     string   `json:"error,omitempty"`
	ThankYou  string   `json:"thankYou,omitempty"`
	Warnings  []string `json:"warnings,omitempty"`
}

func SnapshotOf(s State) Snapshot {
	if s == nil {
		s = Initial{}
	}
	snap := Snapshot{State: s.Kind().String(), CreatorID: s.Creator()}
	switch st := s.(type) {
	case Initial, SelectAmount:
	case CustomAmount:
		snap.Error = st.Error
	case AddMessage:
		snap.Amount = st.Amount
	case Confirm:
		snap.Amount = st.Amount
		snap.Message = st.Message
	case Success:
		snap.Amount = st.Amount
		snap.Message = st.Message
		snap.TxHash = st.TxHash
		snap.ThankYou = st.ThankYou
		snap.Warnings = st.Warnings
	case Failed:
		snap.Amount = st.Amount
		snap.Error = st.Error
	}
	return snap
}

// ToState rebuilds the flow state. An unknown state name yields Initial with
// the creator id kept.
func (snap Snapshot) ToState() State {
	kind, ok := ParseKind(snap.State)
	if !ok {
		return Initial{CreatorID: snap.CreatorID}
	}
	switch kind {
	case KindSelectAmount:
		return SelectAmount{CreatorID: snap.CreatorID}
	case KindCustomAmount:
		return CustomAmount{CreatorID: snap.CreatorID, Error: snap.Error}
	case KindAddMessage:
		return AddMessage{CreatorID: snap.CreatorID, Amount: snap.Amount}
	case KindConfirm:
		return Confirm{CreatorID: snap.CreatorID, Amount: snap.Amount, Message: snap.Message}
	case KindSuccess:
		return Success{
			CreatorID: snap.CreatorID,
			Amount:    snap.Amount,
			Message:   snap.Message,
			TxHash:    snap.TxHash,
			ThankYou:  snap.ThankYou,
			Warnings:  snap.Warnings,
		}
	case KindError:
		return Failed{CreatorID: snap.CreatorID, Amount: snap.Amount, Error: snap.Error}
	default:
		return Initial{CreatorID: snap.CreatorID}
	}
}

// Encode serializes s for the state query parameter.
func Encode(s State) string {
	b, _ := json.Marshal(SnapshotOf(s))
	return url.QueryEscape(string(b))
}

// Decode accepts both the escaped and the raw JSON form. Anything that does
// not parse restarts the flow.
func Decode(raw string) State {
	if raw == "" {
		return Initial{}
	}
	var snap Snapshot
	if err := json.Unmarshal([]byte(raw), &snap); err == nil {
		return snap.ToState()
	}
	unescaped, err := url.QueryUnescape(raw)
	if err != nil {
		return Initial{}
	}
	snap = Snapshot{}
	if err := json.Unmarshal([]byte(unescaped), &snap); err != nil {
		return Initial{}
	}
	return snap.ToState()
}
