package notify

import (
	"fmt"
	"time"

	"github.com/hamed0406/mcstatus/internal/domain"
)

const (
	ColorOnline  = 65280    // green
	ColorOffline = 16711680 // red

	spacer = "\u200b"
)

type Link struct {
	Name  string
	Label string
	URL   string
}

// Style is the static text around the dynamic status fields.
type Style struct {
	Username  string
	AvatarURL string
	Title     string
	Footer    string
	Version   string
	Whitelist string
	Links     []Link
}

type Payload struct {
	Username  string  `json:"username,omitempty"`
	AvatarURL string  `json:"avatar_url,omitempty"`
	Embeds    []Embed `json:"embeds"`
}

type Embed struct {
	Title       string  `json:"title"`
	Color       int     `json:"color"`
	Description string  `json:"description"`
	Fields      []Field `json:"fields"`
	Timestamp   string  `json:"timestamp"`
	Footer      Footer  `json:"footer"`
}

type Field struct {
	Name   string `json:"name"`
	Value  string `json:"value"`
	Inline bool   `json:"inline"`
}

type Footer struct {
	Text string `json:"text"`
}

// BuildPayload renders a notice as a single-embed webhook message.
func BuildPayload(n domain.Notice, s Style) Payload {
	color := ColorOffline
	description := "🔴 **SERVER OFFLINE** 🔴"
	if n.Result.Online {
		color = ColorOnline
		description = "🟢 **SERVER ONLINE** 🟢"
	}

	address := "unresolved"
	if n.Endpoint != nil {
		address = n.Endpoint.Host
	}

	blank := Field{Name: spacer, Value: spacer}
	fields := []Field{
		blank,
		{Name: "SERVER ADDRESS", Value: address, Inline: true},
		{Name: "VERSION", Value: s.Version, Inline: true},
	}
	if !n.Result.Online && n.Result.Reason != domain.ReasonNone {
		fields = append(fields, Field{Name: "REASON", Value: string(n.Result.Reason)})
	}
	if len(s.Links) > 0 {
		fields = append(fields, blank)
		for _, l := range s.Links {
			fields = append(fields, Field{Name: l.Name, Value: fmt.Sprintf("[%s](%s)", l.Label, l.URL), Inline: true})
		}
	}
	if s.Whitelist != "" {
		fields = append(fields, blank, Field{Name: "WHITELIST", Value: s.Whitelist})
	}
	fields = append(fields, blank)

	at := n.At
	if at.IsZero() {
		at = time.Now()
	}

	return Payload{
		Username:  s.Username,
		AvatarURL: s.AvatarURL,
		Embeds: []Embed{{
			Title:       s.Title,
			Color:       color,
			Description: description,
			Fields:      fields,
			Timestamp:   at.UTC().Format(time.RFC3339),
			Footer:      Footer{Text: s.Footer},
		}},
	}
}
