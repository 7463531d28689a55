package plex

import (
	"encoding/json"
	"encoding/xml"
	"fmt"
	"strings"

	"github.com/spf13/cast"
)

// Plex answers the same logical endpoints with either a JSON MediaContainer
// or an XML one, and the JSON variant is loosely typed: ratingKey and year
// arrive as numbers or strings depending on server version. The decoders
// below normalize both encodings into the Section/Item shapes.

func isJSONContent(contentType string) bool {
	return strings.Contains(strings.ToLower(contentType), "json")
}

func decodeSections(data []byte, contentType string) ([]Section, error) {
	if isJSONContent(contentType) {
		if sections, err := decodeSectionsJSON(data); err == nil {
			return sections, nil
		}
	}
	return decodeSectionsXML(data)
}

func decodeSectionsJSON(data []byte) ([]Section, error) {
	var envelope struct {
		MediaContainer struct {
			Directory []map[string]any `json:"Directory"`
		} `json:"MediaContainer"`
	}
	if err := json.Unmarshal(data, &envelope); err != nil {
		return nil, fmt.Errorf("decode sections json: %w", err)
	}
	sections := make([]Section, 0, len(envelope.MediaContainer.Directory))
	for _, dir := range envelope.MediaContainer.Directory {
		section := Section{
			Key:   cast.ToString(dir["key"]),
			Title: cast.ToString(dir["title"]),
			Kind:  SectionKind(cast.ToString(dir["type"])),
		}
		if section.Key == "" {
			continue
		}
		sections = append(sections, section)
	}
	return sections, nil
}

func decodeSectionsXML(data []byte) ([]Section, error) {
	var container struct {
		Directories []struct {
			Key   string `xml:"key,attr"`
			Title string `xml:"title,attr"`
			Type  string `xml:"type,attr"`
		} `xml:"Directory"`
	}
	if err := xml.Unmarshal(data, &container); err != nil {
		return nil, fmt.Errorf("decode sections xml: %w", err)
	}
	sections := make([]Section, 0, len(container.Directories))
	for _, dir := range container.Directories {
		if dir.Key == "" {
			continue
		}
		sections = append(sections, Section{Key: dir.Key, Title: dir.Title, Kind: SectionKind(dir.Type)})
	}
	return sections, nil
}

func decodeItems(data []byte, contentType string) ([]Item, error) {
	if isJSONContent(contentType) {
		if items, err := decodeItemsJSON(data); err == nil {
			return items, nil
		}
	}
	return decodeItemsXML(data)
}

func decodeItemsJSON(data []byte) ([]Item, error) {
	var envelope struct {
		MediaContainer struct {
			Metadata []map[string]any `json:"Metadata"`
		} `json:"MediaContainer"`
	}
	if err := json.Unmarshal(data, &envelope); err != nil {
		return nil, fmt.Errorf("decode items json: %w", err)
	}
	items := make([]Item, 0, len(envelope.MediaContainer.Metadata))
	for _, meta := range envelope.MediaContainer.Metadata {
		item := Item{
			RatingKey: cast.ToString(meta["ratingKey"]),
			Title:     cast.ToString(meta["title"]),
			Year:      cast.ToInt(meta["year"]),
		}
		if guids, ok := meta["Guid"].([]any); ok {
			for _, entry := range guids {
				fields, ok := entry.(map[string]any)
				if !ok {
					continue
				}
				if id := cast.ToString(fields["id"]); id != "" {
					item.GUIDs = append(item.GUIDs, id)
				}
			}
		}
		if len(item.GUIDs) == 0 {
			if inline := cast.ToString(meta["guid"]); inline != "" {
				item.GUIDs = append(item.GUIDs, inline)
			}
		}
		items = append(items, item)
	}
	return items, nil
}

func decodeItemsXML(data []byte) ([]Item, error) {
	type xmlEntry struct {
		RatingKey string `xml:"ratingKey,attr"`
		Title     string `xml:"title,attr"`
		Year      string `xml:"year,attr"`
		GUID      string `xml:"guid,attr"`
		GUIDs     []struct {
			ID string `xml:"id,attr"`
		} `xml:"Guid"`
	}
	var container struct {
		Videos      []xmlEntry `xml:"Video"`
		Directories []xmlEntry `xml:"Directory"`
	}
	if err := xml.Unmarshal(data, &container); err != nil {
		return nil, fmt.Errorf("decode items xml: %w", err)
	}

	entries := make([]xmlEntry, 0, len(container.Videos)+len(container.Directories))
	entries = append(entries, container.Videos...)
	entries = append(entries, container.Directories...)

	items := make([]Item, 0, len(entries))
	for _, entry := range entries {
		item := Item{
			RatingKey: entry.RatingKey,
			Title:     entry.Title,
			Year:      cast.ToInt(entry.Year),
		}
		for _, guid := range entry.GUIDs {
			if guid.ID != "" {
				item.GUIDs = append(item.GUIDs, guid.ID)
			}
		}
		if len(item.GUIDs) == 0 && entry.GUID != "" {
			item.GUIDs = append(item.GUIDs, entry.GUID)
		}
		items = append(items, item)
	}
	return items, nil
}
