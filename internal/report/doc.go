// Package report renders a run summary as JSON or Markdown.
//
// These reports sit next to the three flat output files and never replace
// them. Writers implement Writer and can be combined with MultiWriter.
package report
