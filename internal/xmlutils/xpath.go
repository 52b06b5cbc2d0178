package xmlutils

import (
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"strings"

	"fjacquet/sdp-connect/internal/logging"

	"golang.org/x/net/html/charset"
	"gopkg.in/xmlpath.v2"
)

var log = logging.NewLogrusAdapter("info", "text")

// SetLogger sets a custom logger for this package
func SetLogger(logger logging.Logger) {
	if logger != nil {
		log = logger
	}
}

// Parse reads an XML document from r. Documents declaring a non UTF-8
// encoding are converted on the fly.
func Parse(r io.Reader) (*xmlpath.Node, error) {
	decoder := xml.NewDecoder(r)
	decoder.CharsetReader = charset.NewReaderLabel

	root, err := xmlpath.ParseDecoder(decoder)
	if err != nil {
		return nil, fmt.Errorf("failed to parse XML: %w", err)
	}
	return root, nil
}

// LoadXMLFile loads an XML file and returns the XML root node
func LoadXMLFile(xmlFilePath string) (*xmlpath.Node, error) {
	file, err := os.Open(xmlFilePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open XML file: %w", err)
	}
	defer func() {
		if err := file.Close(); err != nil {
			log.WithError(err).Warn("Failed to close file",
				logging.F(logging.FieldFile, xmlFilePath))
		}
	}()

	root, err := Parse(file)
	if err != nil {
		return nil, fmt.Errorf("failed to parse XML file: %w", err)
	}

	return root, nil
}

// ExtractFromXML extracts values from an XML node using an XPath expression
func ExtractFromXML(root *xmlpath.Node, xpath string) ([]string, error) {
	path, err := xmlpath.Compile(xpath)
	if err != nil {
		return nil, fmt.Errorf("failed to compile XPath: %w", err)
	}

	var values []string
	iter := path.Iter(root)
	for iter.Next() {
		values = append(values, CleanText(iter.Node().String()))
	}

	return values, nil
}

// FirstValue returns the first value matched by xpath and whether anything
// matched at all.
func FirstValue(root *xmlpath.Node, xpath string) (string, bool, error) {
	path, err := xmlpath.Compile(xpath)
	if err != nil {
		return "", false, fmt.Errorf("failed to compile XPath: %w", err)
	}
	value, ok := path.String(root)
	return CleanText(value), ok, nil
}

// CleanText trims the text and collapses inner runs of whitespace
// (including newlines and tabs) into single spaces.
func CleanText(text string) string {
	return strings.Join(strings.Fields(text), " ")
}
