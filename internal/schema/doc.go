// Package schema provides the YAML document model of dataset description
// files, the fs.FS loader that follows $import references, and the parser
// for field type expressions.
//
// # Document Overview
//
//	$dsdl-version: "0.5.0"
//	$import:
//	  - common/classes        # relative path without extension
//	meta:
//	  name: my-dataset        # opaque to the compiler
//	data:
//	  sample-type: Sample[dom=Colors]
//	  global-info-type: Info  # optional
//	defs:
//	  Colors:
//	    $def: class_domain
//	    classes: [red, green]
//	    skeleton: [[1, 2]]    # optional, 1-based category indices
//	  Sample:
//	    $def: struct
//	    $params: [dom]
//	    $fields:
//	      label: Label[dom=$dom]
//	      box: BBox[mode=xyxy]
//	      objects: List[etype=Object[dom=$dom], ordered=true]
//	    $optional: [objects]
//
// Definitions may also appear as top-level keys, which is how library files
// shared through $import are usually written.
//
// # Type Expressions
//
//	KindName
//	KindName[arg=value, ...]
//	List[etype=KindName[...]]
//	Label[dom=[A, B]]
//
// The boolean flags is_attr and optional are accepted by every kind.
package schema
