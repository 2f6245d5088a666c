package metadata

import (
	"encoding/xml"
	"fmt"
	"os"
	"strconv"
)

type tagDocument struct {
	XMLName xml.Name `xml:"Tags"`
	Tags    []tag    `xml:"Tag"`
}

type tag struct {
	Simples []simpleTag `xml:"Simple"`
}

type simpleTag struct {
	Name   string `xml:"Name"`
	String string `xml:"String"`
}

// WriteGlobalTags renders a Matroska global tags document for the release
// and writes it to path. The TMDB pointer follows the scheme players and
// scrapers expect: "movie/<id>" or "tv/<id>".
func WriteGlobalTags(path string, details *Details, releaseGroup, sourceLabel string) error {
	if details == nil {
		return fmt.Errorf("details are required")
	}

	kind := "tv"
	if details.MediaType == "movie" {
		kind = "movie"
	}
	simples := []simpleTag{
		{Name: "TMDB", String: kind + "/" + strconv.FormatInt(details.ID, 10)},
	}
	if title := details.DisplayTitle(); title != "" {
		simples = append(simples, simpleTag{Name: "TITLE", String: title})
	}
	if releaseGroup != "" {
		simples = append(simples, simpleTag{Name: "RELEASE_GROUP", String: releaseGroup})
	}
	if sourceLabel != "" {
		simples = append(simples, simpleTag{Name: "SOURCE", String: sourceLabel})
	}

	doc := tagDocument{Tags: []tag{{Simples: simples}}}
	data, err := xml.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal global tags: %w", err)
	}
	out := append([]byte(xml.Header), data...)
	out = append(out, '\n')
	if err := os.WriteFile(path, out, 0o644); err != nil {
		return fmt.Errorf("write global tags: %w", err)
	}
	return nil
}
