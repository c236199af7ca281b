// Package assemble builds pipelines from declarative YAML definitions.
//
// A definition names an ordered list of stages; each stage is either a
// component registered in a Registry (instantiated with its params) or
// a reference to another definition, inlined by Resolve:
//
//	name: ingest
//	stages:
//	  - component: file-source
//	    params:
//	      path: events.ndjson
//	  - pipeline: common-transform
//	  - component: redis-sink
//	    params:
//	      key: ingest:out
//
// Registry.Build instantiates the stages and folds them with
// conduit.Connect, so a saturated definition (source through sink)
// yields the completed pipe:
//
//	reg := assemble.NewRegistry()
//	reg.Register("file-source", newFileSource)
//	defs, _ := assemble.LoadDir("pipelines")
//	def, _ := assemble.Resolve(defs["ingest"], defs)
//	p, err := reg.Build(def)
package assemble
