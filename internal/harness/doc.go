// Package harness runs authored evaluation scenarios for testing.
//
// A scenario is a YAML document describing a project and the timeline
// instants to evaluate it at. The harness evaluates the timeline at each
// instant, compiles the resulting graph, and can snapshot the canonical
// dump of every evaluation against a golden file.
//
// # Scenario Format
//
//	name: scenario_name
//	description: "What this scenario covers"
//	quality: standard
//	at: [0.5, 1.5]
//	project:
//	  tracks:
//	    - name: drums
//	      clips:
//	        - name: intro
//	          asset: drums-intro
//	          start: 0
//	          duration: 4
//	          fade_in: { duration: 0.25 }
//
// # Deterministic Testing
//
// Scenario ids are name-derived (never random) and evaluation uses the
// fixed engine clock, so the canonical dump is byte-identical across runs
// and machines - the property golden comparison depends on.
//
// # Usage
//
//	scenario, err := harness.LoadScenario("testdata/scenarios/two_tracks.yaml")
//	if err != nil {
//	    t.Fatal(err)
//	}
//	harness.RunWithGolden(t, scenario)
package harness
