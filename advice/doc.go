// Package advice loads recovery-template catalogs for remedy detectors.
//
// Recovery guidance is data, not control flow: a catalog maps error types to
// a header and an ordered list of remediation steps. Hosts ship their own
// wording, translations, or templates for host-defined error types as YAML
// and overlay them on the built-ins:
//
//	templates:
//	  syntax:
//	    header: "SYNTAX ERROR - try these steps:"
//	    steps:
//	      - "Re-read the failing line before editing."
//	      - "Balance brackets and quotes."
//	  database:
//	    header: "DATABASE ERROR - try these steps:"
//	    steps:
//	      - "Check the migration state first."
//
//	custom, err := advice.Load(catalogFile)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	det.WithTemplates(advice.Merge(remedy.DefaultTemplates(), custom))
//
// Catalogs are schema-validated on load, so a malformed file fails loudly at
// startup instead of producing empty guidance mid-run.
package advice
