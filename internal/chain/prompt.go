// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package chain

import (
	"bytes"
	"text/template"
)

// Stage system prompts. Each stage gets a narrow role so its output stays
// on task (prd002-chain R2.1-R2.3).
const (
	connectionSystem = `You are a pattern recognition engine that finds deep structural connections between unrelated systems. You never solve problems; you only observe how systems relate.`

	ideationSystem = `You are an inventive engineer who turns abstract structural insights into concrete, buildable solutions. You favor specific mechanisms over vague directions.`

	rankingSystem = `You are a precise evaluator. You extract ideas from text and score them. You respond only with JSON and never add commentary outside it.`
)

// connectionPromptTmpl asks for exactly one cross-domain observation over
// the sampled mechanisms. The target problem is deliberately withheld so
// the observation stays unbiased.
var connectionPromptTmpl = template.Must(template.New("connection").Parse(`Below are descriptions of mechanisms from different domains:

{{range .Mechanisms}}- {{.}}
{{end}}
State exactly one interesting connection, tension, or shared pattern you notice across two or more of these mechanisms. Do not reference any external problem or application. Answer in a short paragraph of free text.`))

type connectionInput struct {
	Mechanisms []string
}

// ideationPromptTmpl combines the problem, the stage-1 observation, and
// the sampled mechanisms, and asks for five concrete ideas.
var ideationPromptTmpl = template.Must(template.New("ideation").Parse(`Target problem:
{{.Problem}}

A cross-domain observation about the mechanisms below:
{{.Connection}}

The mechanisms:
{{range .Mechanisms}}- {{.}}
{{end}}
Using the observation and any of the mechanisms as raw material, propose exactly five concrete ideas for solving the target problem. Each idea must be implementation-specific: name the components, the mechanism it borrows, and how it would work. Number the ideas 1 through 5.`))

type ideationInput struct {
	Problem    string
	Connection string
	Mechanisms []string
}

// rankingPromptTmpl asks the model to extract and score each idea from the
// stage-2 text as a JSON array.
var rankingPromptTmpl = template.Must(template.New("ranking").Parse(`Below is a list of candidate ideas:

{{.Ideas}}

Extract each idea and score it. Respond with a JSON array where each element is an object with these fields:
- "idea": the full idea text
- "relevance": integer 1-10, how directly the idea addresses the problem
- "plausibility": integer 1-10, how feasible the idea is to build
- "reasoning": a short justification for the scores

Do not include any text outside the JSON.

Example response:
[{"idea": "Use expansion joints between service boundaries so deployments absorb load shifts.", "relevance": 8, "plausibility": 6, "reasoning": "Directly applicable; moderate engineering effort."}]`))

type rankingInput struct {
	Ideas string
}

// mustRender executes a prompt template. The templates are static and the
// inputs are plain structs, so render errors indicate a programming bug.
func mustRender(tmpl *template.Template, data any) string {
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		panic(err)
	}
	return buf.String()
}
