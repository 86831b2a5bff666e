// Command formflow-cli walks a form definition interactively: it prompts
// for each visible input, re-derives the current step after every answer,
// and finishes with a full validation and a summary-row dump. It exists for
// form authors debugging definitions, not for end users.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/AlecAivazis/survey/v2"

	formflow "github.com/goliatone/go-formflow"
	"github.com/goliatone/go-formflow/pkg/derive"
	"github.com/goliatone/go-formflow/pkg/form"
	"github.com/goliatone/go-formflow/pkg/pdfrow"
)

func main() {
	definition := flag.String("definition", "form.json", "form definition path (.json or .yaml)")
	flag.Parse()

	data, err := os.ReadFile(*definition)
	if err != nil {
		log.Fatalf("read definition: %v", err)
	}
	root, err := formflow.LoadDefinition(data)
	if err != nil {
		log.Fatalf("load definition: %v", err)
	}
	if err := formflow.CheckDefinition(root); err != nil {
		log.Fatal(err)
	}

	answers := form.Answers{}
	for _, step := range root.Steps {
		result, err := formflow.EvaluateStep(root, step.ID, answers)
		if err != nil {
			log.Fatalf("derive step %q: %v", step.ID, err)
		}
		if flagged, ok := result.Visibility[step.ID]; ok && !flagged {
			continue
		}

		fmt.Printf("\n== %s ==\n", stepTitle(step))
		for _, node := range step.Elements {
			askVisible(node, result, answers)
		}
	}

	result, err := formflow.Evaluate(root, answers)
	if err != nil {
		log.Fatalf("full validation: %v", err)
	}
	printOutcome(root, result)
}

func askVisible(node form.Node, result derive.Result, answers form.Answers) {
	id := node.Base().ID
	if flagged, ok := result.Visibility[id]; ok && !flagged {
		return
	}
	if in, ok := node.(*form.Input); ok {
		if answer, ok := ask(in); ok {
			answers[id] = answer
		}
		return
	}
	for _, child := range node.Children() {
		askVisible(child, result, answers)
	}
}

func ask(in *form.Input) (any, bool) {
	label := in.DisplayLabel()
	switch in.Kind {
	case form.FieldCheckbox:
		var checked bool
		if err := survey.AskOne(&survey.Confirm{Message: label}, &checked); err != nil {
			return nil, false
		}
		return checked, true
	case form.FieldRadio, form.FieldSelect:
		var choice string
		prompt := &survey.Select{Message: label, Options: optionValues(in)}
		if err := survey.AskOne(prompt, &choice); err != nil {
			return nil, false
		}
		return choice, true
	case form.FieldMultiCheckbox:
		var choices []string
		prompt := &survey.MultiSelect{Message: label, Options: optionValues(in)}
		if err := survey.AskOne(prompt, &choices); err != nil {
			return nil, false
		}
		return choices, true
	default:
		var text string
		if err := survey.AskOne(&survey.Input{Message: label}, &text); err != nil {
			return nil, false
		}
		if text == "" {
			return nil, false
		}
		return text, true
	}
}

func optionValues(in *form.Input) []string {
	if in.Options == nil {
		return nil
	}
	out := make([]string, 0, len(in.Options.Options))
	for _, opt := range in.Options.Options {
		out = append(out, opt.Value)
	}
	return out
}

func stepTitle(step *form.Step) string {
	if step.Title != "" {
		return step.Title
	}
	return step.ID
}

func printOutcome(root *form.Root, result derive.Result) {
	if len(result.Errors) > 0 {
		fmt.Println("\nValidation errors:")
		for id, message := range result.Errors {
			fmt.Printf("  %s: %s\n", id, message)
		}
		os.Exit(1)
	}

	fmt.Println("\nForm is valid. Summary:")
	for _, section := range pdfrow.NewBuilder().Sections(root, result) {
		fmt.Printf("  %s\n", section.Title)
		for _, row := range section.Rows {
			fmt.Printf("    %s: %s\n", row.Label, row.Value)
		}
	}
}
