package parser

import (
	"encoding/json"
	"io"
	"regexp"
	"strconv"

	"github.com/owenrumney/go-sarif/v2/sarif"

	"github.com/defectlink/defectlink/internal/defect"
)

var cweRe = regexp.MustCompile(`(?i)\bCWE-(\d+)`)

// sarifTreeDecoder reads SARIF documents through the go-sarif model. Results
// of multiple runs are flattened in run order; the rule id becomes the
// checker class.
type sarifTreeDecoder struct {
	report  *sarif.Report
	results []*sarif.Result
	rules   map[string]*sarif.ReportingDescriptor
	pos     int
}

func newSarifTreeDecoder(content []byte) (*sarifTreeDecoder, error) {
	var report sarif.Report
	if err := json.Unmarshal(content, &report); err != nil {
		return nil, err
	}

	d := &sarifTreeDecoder{
		report: &report,
		rules:  map[string]*sarif.ReportingDescriptor{},
	}
	for _, run := range report.Runs {
		d.results = append(d.results, run.Results...)
		if run.Tool.Driver == nil {
			continue
		}
		for _, rule := range run.Tool.Driver.Rules {
			d.rules[rule.ID] = rule
		}
	}
	return d, nil
}

func (d *sarifTreeDecoder) readScanProps() defect.ScanProps {
	if len(d.report.Runs) == 0 || d.report.Runs[0].Tool.Driver == nil {
		return nil
	}
	driver := d.report.Runs[0].Tool.Driver

	props := defect.ScanProps{}
	if driver.Name != "" {
		props["tool"] = driver.Name
	}
	if driver.Version != nil {
		props["tool-version"] = *driver.Version
	} else if driver.SemanticVersion != nil {
		props["tool-version"] = *driver.SemanticVersion
	}
	if driver.InformationURI != nil {
		props["tool-url"] = *driver.InformationURI
	}
	if len(props) == 0 {
		return nil
	}
	return props
}

func (d *sarifTreeDecoder) readNode() (*defect.Defect, error) {
	if d.pos >= len(d.results) {
		return nil, io.EOF
	}
	result := d.results[d.pos]
	d.pos++

	if result.RuleID == nil || *result.RuleID == "" {
		return nil, nodeErrorf("result has no \"ruleId\"")
	}

	def := defect.New(*result.RuleID)
	def.CWE = d.cweOfRule(*result.RuleID)

	var evt defect.Event
	evt.Event = "warning"
	if result.Level != nil && *result.Level != "" {
		evt.Event = *result.Level
	}

	evt.FileName = defect.UnknownFileName
	if len(result.Locations) != 0 {
		if phys := result.Locations[0].PhysicalLocation; phys != nil {
			if phys.ArtifactLocation != nil && phys.ArtifactLocation.URI != nil {
				evt.FileName = *phys.ArtifactLocation.URI
			}
			if phys.Region != nil {
				if phys.Region.StartLine != nil {
					evt.Line = *phys.Region.StartLine
				}
				if phys.Region.StartColumn != nil {
					evt.Column = *phys.Region.StartColumn
				}
			}
		}
	}

	evt.Msg = defect.UnknownMsg
	if result.Message.Text != nil {
		evt.Msg = *result.Message.Text
	}

	def.Events = append(def.Events, evt)
	return def, nil
}

// cweOfRule recovers a CWE id from the rule metadata: either a "cwe"
// property or a CWE-nnn tag among the rule's properties.
func (d *sarifTreeDecoder) cweOfRule(ruleID string) int {
	rule, ok := d.rules[ruleID]
	if !ok || rule.Properties == nil {
		return 0
	}

	if prop, ok := rule.Properties["cwe"]; ok {
		if s, ok := prop.(string); ok {
			if m := cweRe.FindStringSubmatch(s); m != nil {
				n, _ := strconv.Atoi(m[1])
				return n
			}
		}
	}

	if tags, ok := rule.Properties["tags"].([]any); ok {
		for _, tag := range tags {
			s, ok := tag.(string)
			if !ok {
				continue
			}
			if m := cweRe.FindStringSubmatch(s); m != nil {
				n, _ := strconv.Atoi(m[1])
				return n
			}
		}
	}

	return 0
}
