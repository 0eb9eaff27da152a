package epg

import (
	"bytes"
	"encoding/json"
	"encoding/xml"
	"fmt"
	"io"
	"strconv"
	"strings"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
)

// Parser decodes raw EPG feed bytes into a normalized Guide. XMLTV is
// attempted first (the conventional feed format); on any decode failure the
// JSON variant is attempted. Parsing is pure: the same input always yields the
// same Guide.
type Parser struct{}

func NewParser() *Parser {
	return &Parser{}
}

func (p *Parser) Run(data []byte) (*Guide, error) {
	guide, xmlErr := p.parseXMLTV(data)
	if xmlErr == nil {
		return guide, nil
	}

	guide, jsonErr := p.parseJSON(data)
	if jsonErr == nil {
		return guide, nil
	}

	return nil, &ParseError{XMLErr: xmlErr, JSONErr: jsonErr}
}

type xmltvDoc struct {
	XMLName    xml.Name         `xml:"tv"`
	Channels   []xmltvChannel   `xml:"channel"`
	Programmes []xmltvProgramme `xml:"programme"`
}

type xmltvChannel struct {
	ID           string      `xml:"id,attr"`
	DisplayNames []xmltvText `xml:"display-name"`
	Icons        []xmltvIcon `xml:"icon"`
}

type xmltvProgramme struct {
	Channel    string      `xml:"channel,attr"`
	Start      string      `xml:"start,attr"`
	Stop       string      `xml:"stop,attr"`
	Titles     []xmltvText `xml:"title"`
	Descs      []xmltvText `xml:"desc"`
	Categories []xmltvText `xml:"category"`
}

// xmltvText covers the shape variants feed producers emit for text fields:
// plain chardata, a list of localized elements (repeated element decodes into
// a slice), or a text node carrying a lang attribute.
type xmltvText struct {
	Lang string `xml:"lang,attr"`
	Text string `xml:",chardata"`
}

type xmltvIcon struct {
	Src string `xml:"src,attr"`
}

func (p *Parser) parseXMLTV(data []byte) (*Guide, error) {
	decoder := xml.NewDecoder(bytes.NewReader(data))
	decoder.CharsetReader = charsetReader

	var doc xmltvDoc
	if err := decoder.Decode(&doc); err != nil {
		return nil, err
	}

	guide := &Guide{}
	channelMap := make(map[string]Channel)

	for _, ch := range doc.Channels {
		id := strings.TrimSpace(ch.ID)
		if id == "" {
			continue
		}

		name := firstText(ch.DisplayNames)
		if name == "" {
			name = "Unknown"
		}

		channel := Channel{
			ID:      id,
			Name:    name,
			IconURL: firstIcon(ch.Icons),
		}
		guide.Channels = append(guide.Channels, channel)
		channelMap[id] = channel
	}

	for _, prog := range doc.Programmes {
		channelID := strings.TrimSpace(prog.Channel)
		if _, ok := channelMap[channelID]; !ok {
			// Program references an unknown channel, drop it.
			continue
		}

		start, err := ParseXMLTVTime(prog.Start)
		if err != nil {
			guide.Skipped++
			continue
		}
		end, err := ParseXMLTVTime(prog.Stop)
		if err != nil {
			guide.Skipped++
			continue
		}

		guide.Programs = append(guide.Programs, Program{
			ChannelID:   channelID,
			Title:       firstText(prog.Titles),
			Description: firstText(prog.Descs),
			Category:    firstText(prog.Categories),
			Start:       start,
			End:         end,
		})
	}

	return guide, nil
}

type jsonDoc struct {
	Channels *[]jsonChannel `json:"channels"`
	Programs *[]jsonProgram `json:"programs"`
}

type jsonChannel struct {
	ID      flexString `json:"id"`
	Name    string     `json:"name"`
	IconURL string     `json:"iconUrl"`
}

type jsonProgram struct {
	ChannelID   flexString `json:"channelId"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Category    string     `json:"category"`
	StartTime   string     `json:"startTime"`
	EndTime     string     `json:"endTime"`
}

func (p *Parser) parseJSON(data []byte) (*Guide, error) {
	var doc jsonDoc
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, err
	}

	if doc.Channels == nil || doc.Programs == nil {
		return nil, fmt.Errorf("invalid JSON format: missing 'channels' or 'programs'")
	}

	guide := &Guide{}

	for _, ch := range *doc.Channels {
		guide.Channels = append(guide.Channels, Channel{
			ID:      string(ch.ID),
			Name:    ch.Name,
			IconURL: ch.IconURL,
		})
	}

	for _, prog := range *doc.Programs {
		start, err := ParseISOTime(prog.StartTime)
		if err != nil {
			return nil, err
		}
		end, err := ParseISOTime(prog.EndTime)
		if err != nil {
			return nil, err
		}

		guide.Programs = append(guide.Programs, Program{
			ChannelID:   string(prog.ChannelID),
			Title:       prog.Title,
			Description: prog.Description,
			Category:    prog.Category,
			Start:       start,
			End:         end,
		})
	}

	return guide, nil
}

// flexString accepts either a JSON string or a JSON number, so numeric channel
// identifiers match their XMLTV string counterparts.
type flexString string

func (s *flexString) UnmarshalJSON(data []byte) error {
	var raw interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	switch v := raw.(type) {
	case string:
		*s = flexString(v)
	case float64:
		*s = flexString(strconv.FormatFloat(v, 'f', -1, 64))
	case nil:
		*s = ""
	default:
		return fmt.Errorf("unsupported identifier type: %T", raw)
	}

	return nil
}

// firstText returns the text of the first element, covering the plain,
// localized-list, and text-node shapes uniformly.
func firstText(nodes []xmltvText) string {
	if len(nodes) == 0 {
		return ""
	}
	return nodes[0].Text
}

func firstIcon(icons []xmltvIcon) string {
	if len(icons) == 0 {
		return ""
	}
	return icons[0].Src
}

// charsetReader decodes the legacy single-byte encodings XMLTV feeds commonly
// declare. UTF-8 input passes through untouched.
func charsetReader(charset string, input io.Reader) (io.Reader, error) {
	switch strings.ToLower(charset) {
	case "", "utf-8", "utf8":
		return input, nil
	case "iso-8859-1", "iso8859-1", "latin1":
		return transform.NewReader(input, charmap.ISO8859_1.NewDecoder()), nil
	case "windows-1252", "cp1252":
		return transform.NewReader(input, charmap.Windows1252.NewDecoder()), nil
	case "windows-1251", "cp1251":
		return transform.NewReader(input, charmap.Windows1251.NewDecoder()), nil
	}
	return nil, fmt.Errorf("unsupported charset: %s", charset)
}
