package flow

import (
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeDecode_RoundTrip(t *testing.T) {
	states := []State{
		Initial{CreatorID: creatorID},
		SelectAmount{CreatorID: creatorID},
		CustomAmount{CreatorID: creatorID, Error: "Please enter a valid amount"},
		AddMessage{CreatorID: creatorID, Amount: "0.05"},
		Confirm{CreatorID: creatorID, Amount: "0.05", Message: "gm & thanks"},
		Success{CreatorID: creatorID, Amount: "0.05", TxHash: "0xabc", ThankYou: "Thank you!", Warnings: []string{"late"}},
		Failed{CreatorID: creatorID, Amount: "0.05", Error: "user rejected"},
	}
	for _, s := range states {
		encoded := Encode(s)
		assert.False(t, strings.ContainsAny(encoded, "{}\" "), "encoded form must be query safe")
		assert.Equal(t, s, Decode(encoded), s.Kind().String())

		// frameworks hand over the query value already unescaped
		raw, err := url.QueryUnescape(encoded)
		require.NoError(t, err)
		assert.Equal(t, s, Decode(raw), s.Kind().String())
	}
}

func TestDecode_Corrupt(t *testing.T) {
	assert.Equal(t, Initial{}, Decode(""))
	assert.Equal(t, Initial{}, Decode("not-json"))
	assert.Equal(t, Initial{}, Decode("%ZZ"))
	assert.Equal(t, Initial{CreatorID: creatorID}, Decode(`{"state":"WAITING","creatorId":"`+creatorID+`"}`))
}
