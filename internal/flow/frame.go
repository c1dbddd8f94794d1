package flow

import (
	"context"
	"html/template"
	"io"
	"net/url"
	"strings"
)

// FrameAction is the part of a frame POST the machine cares about.
type FrameAction struct {
	ButtonIndex   int
	InputText     string
	TransactionID string
	FanAddress    string
	// CreatorID comes from the URL and seeds a flow without state.
	CreatorID string
}

type Button struct {
	Label  string
	Action string // post (default), link, tx
	Target string
}

type View struct {
	Title            string
	Subtitle         string
	Image            string
	PostURL          string
	InputPlaceholder string
	Buttons          []Button
	State            State
}

// Frame is the social-feed variant: every step is one POST and the state
// travels in the post_url.
type Frame struct {
	machine  *Machine
	presets  []string
	currency string
	baseURL  string
	explorer string
	image    string
}

func NewFrame(machine *Machine, presets []string, currency, baseURL, explorerTxURL, imageURL string) *Frame {
	if currency == "" {
		currency = "ETH"
	}
	return &Frame{
		machine:  machine,
		presets:  presets,
		currency: currency,
		baseURL:  strings.TrimRight(baseURL, "/"),
		explorer: explorerTxURL,
		image:    imageURL,
	}
}

// Open is the first frame for a creator.
func (f *Frame) Open(ctx context.Context, creatorID string) State {
	return f.machine.Step(ctx, Initial{CreatorID: creatorID}, Start{CreatorID: creatorID})
}

func (f *Frame) Handle(ctx context.Context, s State, a FrameAction) State {
	if s == nil {
		s = Initial{}
	}
	if init, ok := s.(Initial); ok && init.CreatorID == "" {
		s = Initial{CreatorID: a.CreatorID}
	}
	return f.machine.Step(ctx, s, f.EventFor(s, a))
}

// EventFor maps a button press in state s to an event.
func (f *Frame) EventFor(s State, a FrameAction) Event {
	switch st := s.(type) {
	case Initial:
		return Start{CreatorID: st.CreatorID}
	case SelectAmount:
		switch {
		case a.ButtonIndex >= 1 && a.ButtonIndex <= 3:
			if a.ButtonIndex <= len(f.presets) {
				return ChoosePreset{Amount: f.presets[a.ButtonIndex-1]}
			}
		case a.ButtonIndex == 4:
			return ChooseCustom{}
		}
	case CustomAmount:
		switch a.ButtonIndex {
		case 1:
			return EnterCustom{Input: a.InputText}
		case 2:
			return Back{}
		}
	case AddMessage:
		switch a.ButtonIndex {
		case 1:
			if strings.TrimSpace(a.InputText) == "" {
				return SkipMessage{}
			}
			return EnterMessage{Message: a.InputText}
		case 2:
			return SkipMessage{}
		case 3:
			return Back{}
		}
	case Confirm:
		switch a.ButtonIndex {
		case 1:
			if a.TransactionID != "" {
				return Submit{FanAddress: a.FanAddress, TxHash: a.TransactionID}
			}
		case 2:
			return Back{}
		}
	case Success:
		if a.ButtonIndex == 2 {
			return TipAgain{}
		}
	case Failed:
		if a.ButtonIndex == 1 {
			return TryAgain{}
		}
	}
	return Stay{}
}

func (f *Frame) Render(s State, card CreatorCard) View {
	title, subtitle := Describe(s, card.Name, f.currency)
	v := View{
		Title:    title,
		Subtitle: subtitle,
		Image:    f.image,
		PostURL:  f.postURL(s),
		State:    s,
	}
	if card.ImageURL != "" {
		v.Image = card.ImageURL
	}

	switch st := s.(type) {
	case Initial:
		v.Buttons = []Button{{Label: "Start Tipping"}}
	case SelectAmount:
		for i, amount := range f.presets {
			if i == 3 {
				break
			}
			v.Buttons = append(v.Buttons, Button{Label: amount + " " + f.currency})
		}
		v.Buttons = append(v.Buttons, Button{Label: "Custom"})
	case CustomAmount:
		v.InputPlaceholder = "Enter amount in " + f.currency
		v.Buttons = []Button{{Label: "Continue"}, {Label: "Back"}}
	case AddMessage:
		v.InputPlaceholder = "Add a message (optional)"
		v.Buttons = []Button{{Label: "Add Message"}, {Label: "Skip"}, {Label: "Back"}}
	case Confirm:
		v.Buttons = []Button{
			{Label: "Confirm Tip", Action: "tx", Target: f.baseURL + "/api/frame/tx?state=" + Encode(st)},
			{Label: "Back"},
		}
	case Success:
		v.Buttons = []Button{
			{Label: "View Transaction", Action: "link", Target: f.explorer + st.TxHash},
			{Label: "Tip Again"},
		}
	case Failed:
		v.Buttons = []Button{{Label: "Try Again"}}
	}
	return v
}

func (f *Frame) postURL(s State) string {
	u := f.baseURL + "/api/frame?state=" + Encode(s)
	if id := s.Creator(); id != "" {
		u += "&creatorId=" + url.QueryEscape(id)
	}
	return u
}

var frameTemplate = template.Must(template.New("frame").Funcs(template.FuncMap{
	"inc": func(i int) int { return i + 1 },
}).Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8" />
<title>{{.Title}}</title>
<meta property="og:title" content="{{.Title}}" />
<meta property="og:description" content="{{.Subtitle}}" />
<meta property="og:image" content="{{.Image}}" />
<meta property="fc:frame" content="vNext" />
<meta property="fc:frame:image" content="{{.Image}}" />
<meta property="fc:frame:post_url" content="{{.PostURL}}" />
{{- if .InputPlaceholder}}
<meta property="fc:frame:input:text" content="{{.InputPlaceholder}}" />
{{- end}}
{{- range $i, $b := .Buttons}}
<meta property="fc:frame:button:{{inc $i}}" content="{{$b.Label}}" />
{{- if $b.Action}}
<meta property="fc:frame:button:{{inc $i}}:action" content="{{$b.Action}}" />
{{- end}}
{{- if $b.Target}}
<meta property="fc:frame:button:{{inc $i}}:target" content="{{$b.Target}}" />
{{- end}}
{{- end}}
</head>
<body>
<h1>{{.Title}}</h1>
<p>{{.Subtitle}}</p>
</body>
</html>
`))

// WriteHTML renders v as a frame document.
func WriteHTML(w io.Writer, v View) error {
	return frameTemplate.Execute(w, v)
}
