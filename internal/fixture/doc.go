// Package fixture loads [asset.Graph] values from a small JSONC description,
// for table-driven tests across bundler, bundlegraph, and optimizer.
//
// A fixture file looks like:
//
//	{
//	  "entries": ["entry"],
//	  "dependencies": [
//	    {"id": "entry", "isEntry": true, "resolve": ["a.js"]},
//	    {"id": "a->b", "resolve": ["b.js"]}
//	  ],
//	  "assets": [
//	    {"id": "a.js", "type": "js", "size": 10, "deps": ["a->b"]},
//	    {"id": "b.js", "type": "js", "size": 20}
//	  ]
//	}
//
// Comments and trailing commas are accepted: the file is preprocessed with
// [github.com/tidwall/jsonc] before being handed to encoding/json, the same
// two-stage approach the adapter package this is grounded on uses for its
// own non-strict parsing mode.
package fixture
