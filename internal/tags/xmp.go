package tags

import (
	"bytes"
	"encoding/xml"
	"io"
	"os"
	"strings"
)

// Embedded XMP packets are bounded; JPEGs from phone cameras keep them
// well under this.
const maxXMPScan = 8 << 20

var (
	xmpMetaOpen  = []byte("<x:xmpmeta")
	xmpMetaClose = []byte("</x:xmpmeta>")
)

// xmpKeywords extracts the keyword entries from an image file's embedded
// XMP packet. Files without a packet yield nil.
func xmpKeywords(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, maxXMPScan))
	if err != nil {
		return nil, err
	}

	start := bytes.Index(data, xmpMetaOpen)
	if start < 0 {
		return nil, nil
	}
	end := bytes.Index(data[start:], xmpMetaClose)
	if end < 0 {
		return nil, nil
	}
	return parseXMPPacket(data[start : start+end+len(xmpMetaClose)])
}

// sidecarKeywords extracts keywords from an .xmp sidecar file, if one
// sits next to the image. A missing sidecar is not an error.
func sidecarKeywords(imagePath string) ([]string, error) {
	base := strings.TrimSuffix(imagePath, extOf(imagePath))
	for _, candidate := range []string{base + ".xmp", imagePath + ".xmp"} {
		data, err := os.ReadFile(candidate)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return nil, err
		}
		return parseXMPPacket(data)
	}
	return nil, nil
}

func extOf(path string) string {
	if idx := strings.LastIndex(path, "."); idx >= 0 {
		return path[idx:]
	}
	return ""
}

// parseXMPPacket pulls every rdf:li item under dc:subject or
// lr:hierarchicalSubject out of an XMP document. For hierarchical
// subjects only the leaf segment is kept.
func parseXMPPacket(packet []byte) ([]string, error) {
	decoder := xml.NewDecoder(bytes.NewReader(packet))

	var (
		keywords []string
		depth    int   // nesting depth inside a subject element, 0 when outside
		inItem   bool  // inside an rdf:li under a subject
		leafOnly bool  // hierarchicalSubject keeps only the last segment
		text     strings.Builder
	)
	for {
		token, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return keywords, err
		}
		switch element := token.(type) {
		case xml.StartElement:
			if depth == 0 && isSubjectElement(element.Name) {
				depth = 1
				leafOnly = element.Name.Local == "hierarchicalSubject"
				continue
			}
			if depth > 0 {
				depth++
				if element.Name.Local == "li" {
					inItem = true
					text.Reset()
				}
			}
		case xml.EndElement:
			if depth == 0 {
				continue
			}
			depth--
			if inItem && element.Name.Local == "li" {
				inItem = false
				keyword := strings.TrimSpace(text.String())
				if leafOnly {
					if idx := strings.LastIndex(keyword, "|"); idx >= 0 {
						keyword = strings.TrimSpace(keyword[idx+1:])
					}
				}
				if keyword != "" {
					keywords = append(keywords, keyword)
				}
			}
		case xml.CharData:
			if inItem {
				text.Write(element)
			}
		}
	}
	return keywords, nil
}

func isSubjectElement(name xml.Name) bool {
	return name.Local == "subject" || name.Local == "hierarchicalSubject"
}
