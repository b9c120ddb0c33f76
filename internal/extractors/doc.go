// Package extractors turns uploaded files into plain text for ingestion.
// Each subpackage handles one family of file extensions; the Registry
// selects between them by file name.
package extractors
