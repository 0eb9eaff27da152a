package epg

import (
	"bytes"
	"errors"
	"testing"
	"time"
)

func TestParseXMLTV(t *testing.T) {
	xmlData := `<?xml version="1.0" encoding="UTF-8"?>
<tv>
  <channel id="one.example">
    <display-name>CA| Channel One</display-name>
    <icon src="https://example.com/one.png"/>
  </channel>
  <channel id="two.example">
    <display-name lang="en">Channel Two</display-name>
    <display-name lang="fr">Chaine Deux</display-name>
  </channel>
  <channel id="">
    <display-name>No ID</display-name>
  </channel>
  <programme channel="one.example" start="20251104020000 +0100" stop="20251104030000 +0100">
    <title>Morning Show</title>
    <desc>Daily news</desc>
    <category>News</category>
  </programme>
  <programme channel="ghost.example" start="20251104020000" stop="20251104030000">
    <title>Orphan</title>
  </programme>
  <programme channel="two.example" start="garbage" stop="20251104030000">
    <title>Broken Time</title>
  </programme>
</tv>`

	parser := NewParser()
	guide, err := parser.Run([]byte(xmlData))

	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	if len(guide.Channels) != 2 {
		t.Fatalf("Expected 2 channels (empty id skipped), got: %d", len(guide.Channels))
	}

	ch1 := guide.Channels[0]
	if ch1.ID != "one.example" {
		t.Errorf("Expected channel id 'one.example', got: %s", ch1.ID)
	}
	if ch1.Name != "CA| Channel One" {
		t.Errorf("Expected name 'CA| Channel One', got: %s", ch1.Name)
	}
	if ch1.IconURL != "https://example.com/one.png" {
		t.Errorf("Expected icon URL 'https://example.com/one.png', got: %s", ch1.IconURL)
	}

	ch2 := guide.Channels[1]
	if ch2.Name != "Channel Two" {
		t.Errorf("Expected first localized name 'Channel Two', got: %s", ch2.Name)
	}
	if ch2.IconURL != "" {
		t.Errorf("Expected empty icon URL, got: %s", ch2.IconURL)
	}

	if len(guide.Programs) != 1 {
		t.Fatalf("Expected 1 program (orphan and broken time dropped), got: %d", len(guide.Programs))
	}
	if guide.Skipped != 1 {
		t.Errorf("Expected 1 skipped program for unparsable time, got: %d", guide.Skipped)
	}

	prog := guide.Programs[0]
	if prog.Title != "Morning Show" {
		t.Errorf("Expected title 'Morning Show', got: %s", prog.Title)
	}
	if prog.Description != "Daily news" {
		t.Errorf("Expected description 'Daily news', got: %s", prog.Description)
	}
	if prog.Category != "News" {
		t.Errorf("Expected category 'News', got: %s", prog.Category)
	}

	wantStart := time.Date(2025, 11, 4, 1, 0, 0, 0, time.UTC)
	if !prog.Start.Equal(wantStart) {
		t.Errorf("Expected start %v, got: %v", wantStart, prog.Start)
	}
}

func TestParseXMLTVMissingDisplayName(t *testing.T) {
	xmlData := `<tv>
  <channel id="bare.example"/>
  <channel id="structured.example">
    <display-name lang="en"></display-name>
  </channel>
</tv>`

	parser := NewParser()
	guide, err := parser.Run([]byte(xmlData))

	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if len(guide.Channels) != 2 {
		t.Fatalf("Expected 2 channels, got: %d", len(guide.Channels))
	}
	for _, ch := range guide.Channels {
		if ch.Name != "Unknown" {
			t.Errorf("Expected placeholder name 'Unknown' for %s, got: %s", ch.ID, ch.Name)
		}
	}
}

func TestParseXMLTVTrimsIdentifiers(t *testing.T) {
	xmlData := `<tv>
  <channel id="  padded.example  ">
    <display-name>Padded</display-name>
  </channel>
  <programme channel=" padded.example " start="20250101120000" stop="20250101130000">
    <title>Show</title>
  </programme>
</tv>`

	parser := NewParser()
	guide, err := parser.Run([]byte(xmlData))

	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if len(guide.Channels) != 1 || guide.Channels[0].ID != "padded.example" {
		t.Fatalf("Expected trimmed channel id 'padded.example', got: %+v", guide.Channels)
	}
	if len(guide.Programs) != 1 {
		t.Fatalf("Expected program to resolve against trimmed id, got %d programs", len(guide.Programs))
	}
	if guide.Programs[0].ChannelID != "padded.example" {
		t.Errorf("Expected trimmed program channel id, got: %s", guide.Programs[0].ChannelID)
	}
}

func TestParseJSON(t *testing.T) {
	jsonData := `{
  "channels": [
    {"id": "one", "name": "Channel One", "iconUrl": "https://example.com/one.png"},
    {"id": 42, "name": "Numeric Channel"}
  ],
  "programs": [
    {"channelId": 42, "title": "Numeric Show", "description": "d", "category": "c",
     "startTime": "2025-11-04T01:00:00Z", "endTime": "2025-11-04T02:00:00Z"}
  ]
}`

	parser := NewParser()
	guide, err := parser.Run([]byte(jsonData))

	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	if len(guide.Channels) != 2 {
		t.Fatalf("Expected 2 channels, got: %d", len(guide.Channels))
	}
	if guide.Channels[1].ID != "42" {
		t.Errorf("Expected numeric id coerced to string '42', got: %s", guide.Channels[1].ID)
	}

	if len(guide.Programs) != 1 {
		t.Fatalf("Expected 1 program, got: %d", len(guide.Programs))
	}
	prog := guide.Programs[0]
	if prog.ChannelID != "42" {
		t.Errorf("Expected program channel id '42', got: %s", prog.ChannelID)
	}
	wantStart := time.Date(2025, 11, 4, 1, 0, 0, 0, time.UTC)
	if !prog.Start.Equal(wantStart) {
		t.Errorf("Expected start %v, got: %v", wantStart, prog.Start)
	}
}

func TestParseJSONMissingKeys(t *testing.T) {
	parser := NewParser()

	_, err := parser.Run([]byte(`{"channels": []}`))
	if err == nil {
		t.Fatal("Expected error for JSON missing 'programs'")
	}

	var parseErr *ParseError
	if !errors.As(err, &parseErr) {
		t.Fatalf("Expected *ParseError, got: %T", err)
	}
	if parseErr.JSONErr == nil {
		t.Error("Expected JSON cause to be populated")
	}
}

func TestParseMalformedData(t *testing.T) {
	parser := NewParser()

	_, err := parser.Run([]byte("this is neither xml nor json"))
	if err == nil {
		t.Fatal("Expected error for malformed data")
	}

	var parseErr *ParseError
	if !errors.As(err, &parseErr) {
		t.Fatalf("Expected *ParseError, got: %T", err)
	}
	if parseErr.XMLErr == nil || parseErr.JSONErr == nil {
		t.Errorf("Expected both underlying causes, got XML: %v, JSON: %v", parseErr.XMLErr, parseErr.JSONErr)
	}
}

func TestParseIdempotent(t *testing.T) {
	xmlData := `<tv>
  <channel id="a"><display-name>A</display-name></channel>
  <programme channel="a" start="20250101120000" stop="20250101130000"><title>One</title></programme>
  <programme channel="a" start="20250101130000" stop="20250101140000"><title>Two</title></programme>
</tv>`

	parser := NewParser()
	first, err := parser.Run([]byte(xmlData))
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	second, err := parser.Run([]byte(xmlData))
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	if len(first.Channels) != len(second.Channels) || len(first.Programs) != len(second.Programs) {
		t.Fatalf("Expected identical results, got %d/%d channels and %d/%d programs",
			len(first.Channels), len(second.Channels), len(first.Programs), len(second.Programs))
	}
	for i := range first.Programs {
		if first.Programs[i] != second.Programs[i] {
			t.Errorf("Program %d differs between parses: %+v vs %+v", i, first.Programs[i], second.Programs[i])
		}
	}
}

func TestParseXMLTVLatin1(t *testing.T) {
	var buf bytes.Buffer
	buf.WriteString(`<?xml version="1.0" encoding="ISO-8859-1"?><tv><channel id="fr"><display-name>T`)
	buf.WriteByte(0xE9) // 'é' in ISO-8859-1
	buf.WriteString("l")
	buf.WriteByte(0xE9)
	buf.WriteString(`</display-name></channel></tv>`)

	parser := NewParser()
	guide, err := parser.parseXMLTV(buf.Bytes())
	if err != nil {
		t.Fatalf("Expected no error for latin-1 input, got: %v", err)
	}
	if len(guide.Channels) != 1 {
		t.Fatalf("Expected 1 channel, got: %d", len(guide.Channels))
	}
	if guide.Channels[0].Name != "Télé" {
		t.Errorf("Expected decoded name 'Télé', got: %s", guide.Channels[0].Name)
	}
}
