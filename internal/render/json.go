package render

import (
	"encoding/json"

	"github.com/dgallion1/wikibinder/internal/assemble"
	"github.com/dgallion1/wikibinder/internal/project"
)

type jsonArticle struct {
	Title string `json:"title"`
	HTML  string `json:"html"`
}

type jsonDocument struct {
	ProjectName  string        `json:"projectName"`
	ProjectNotes string        `json:"projectNotes"`
	Articles     []jsonArticle `json:"articles"`
}

// JSON dumps the project and its article sections as a pretty-printed
// structural document.
func JSON(p *project.Project, sections []assemble.Section) ([]byte, error) {
	doc := jsonDocument{
		ProjectName:  p.Name,
		ProjectNotes: p.Notes,
		Articles:     []jsonArticle{},
	}
	for _, s := range sections {
		if s.Kind != assemble.KindArticle {
			continue
		}
		doc.Articles = append(doc.Articles, jsonArticle{Title: s.Title, HTML: s.Body})
	}

	out, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(out, '\n'), nil
}
