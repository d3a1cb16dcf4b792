package vision

import (
	"strings"

	"github.com/lithammer/dedent"
)

// birdPrompt is the fixed instruction document sent with every image. It is
// loaded once and shared read-only by all requests. The model is asked to
// answer with a small JSON object, but the answer is relayed as-is and
// never parsed.
var birdPrompt = strings.TrimSpace(dedent.Dedent(`
	{
	  "input": "Image captured by camera.",
	  "task": "Analyze the image looking for birds.",
	  "output_format": {
	    "detected": "boolean",
	    "description": "string (brief description if birds detected)"
	  },
	  "instructions": "Do you see little birds standing on the trees?",
	  "example_output_1": {
	    "detected": "yes",
	    "description": "two little birds stands side by side on the tree."
	  },
	  "example_output_2": {
	    "detected": "yes",
	    "description": "a flying bird is flying away from the tree."
	  },
	  "example_output_3": {
	    "detected": "no",
	    "description": "no sign of birds on the trees."
	  }
	}
`))
