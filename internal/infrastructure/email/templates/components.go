// Package templates provides email template components
package templates

import (
	"bytes"
	"html/template"
	"log"
)

type ParagraphProps struct {
	Text string
}

// FieldRow is one label/value pair in a summary table.
type FieldRow struct {
	Label string
	Value string
}

var (
	paragraphTemplate = template.Must(template.New("emailParagraph").Parse(
		`<p style="font-family: Helvetica, sans-serif; font-size: 16px; font-weight: normal; margin: 0; margin-bottom: 16px;">{{.Text}}</p>`))

	headingTemplate = template.Must(template.New("emailHeading").Parse(
		`<h2 style="font-family: Helvetica, sans-serif; font-size: 20px; font-weight: bold; margin: 0; margin-bottom: 16px; color: #1a1a2e;">{{.Text}}</h2>`))

	fieldTableTemplate = template.Must(template.New("emailFieldTable").Parse(`
    <table role="presentation" border="0" cellpadding="0" cellspacing="0" style="border-collapse: collapse; width: 100%; margin-bottom: 16px;" width="100%">
      <tbody>
        {{range .Rows}}
        <tr>
          <td style="font-family: Helvetica, sans-serif; font-size: 15px; padding: 6px 12px 6px 0; color: #6b7280; white-space: nowrap;">{{.Label}}</td>
          <td style="font-family: Helvetica, sans-serif; font-size: 15px; padding: 6px 0; color: #1a1a2e; font-weight: bold;">{{.Value}}</td>
        </tr>
        {{end}}
      </tbody>
    </table>`))
)

type textData struct {
	Text string
}

type fieldTableData struct {
	Rows []FieldRow
}

// GetParagraph renders a paragraph with all HTML escaped.
func GetParagraph(text string) string {
	var buf bytes.Buffer
	if err := paragraphTemplate.Execute(&buf, textData{Text: text}); err != nil {
		log.Printf("Error executing email paragraph template: %v", err)
		return `<div style="color: red;">Paragraph template error</div>`
	}
	return buf.String()
}

// GetHeading renders a section heading.
func GetHeading(text string) string {
	var buf bytes.Buffer
	if err := headingTemplate.Execute(&buf, textData{Text: text}); err != nil {
		log.Printf("Error executing email heading template: %v", err)
		return `<div style="color: red;">Heading template error</div>`
	}
	return buf.String()
}

// GetFieldTable renders label/value rows as a two-column summary table.
func GetFieldTable(rows []FieldRow) string {
	var buf bytes.Buffer
	if err := fieldTableTemplate.Execute(&buf, fieldTableData{Rows: rows}); err != nil {
		log.Printf("Error executing email field table template: %v", err)
		return `<div style="color: red;">Field table template error</div>`
	}
	return buf.String()
}
