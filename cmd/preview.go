package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/lernzeit/quizgen/internal/aigen"
	"github.com/lernzeit/quizgen/internal/answer"
	"github.com/lernzeit/quizgen/internal/catalog"
	"github.com/lernzeit/quizgen/internal/diversity"
	"github.com/lernzeit/quizgen/internal/llm"
	"github.com/lernzeit/quizgen/internal/orchestrator"
	"github.com/lernzeit/quizgen/internal/question"
)

var previewCmd = &cobra.Command{
	Use:   "preview",
	Short: "Generate questions once and print them (no database)",
	Long: `Run the generation pipeline once and print the result.

This is a stateless developer tool: no database tier, no persistence.
Useful for evaluating template and question quality.`,
	RunE: runPreview,
}

func init() {
	previewCmd.Flags().String("subject", "math", "Subject: math or german")
	previewCmd.Flags().Int("grade", 1, "Grade level (1-12)")
	previewCmd.Flags().Int("count", 5, "Number of questions to generate")
	previewCmd.Flags().Bool("ai", false, "Include the AI tier (needs an API key in the environment)")
}

func runPreview(cmd *cobra.Command, args []string) error {
	subject, _ := cmd.Flags().GetString("subject")
	grade, _ := cmd.Flags().GetInt("grade")
	count, _ := cmd.Flags().GetInt("count")
	withAI, _ := cmd.Flags().GetBool("ai")

	ctx := context.Background()

	var gen *aigen.Generator
	if withAI {
		provider, err := llm.NewProviderFromEnv(ctx, nil)
		if err != nil {
			fmt.Fprintln(os.Stderr, "LLM provider not configured:", err)
		} else {
			gen = aigen.New(provider, aigen.DefaultConfig())
		}
	}

	orc := orchestrator.New(
		orchestrator.DefaultConfig(),
		catalog.New(),
		diversity.NewStore(),
		nil,
		gen,
	)

	res, err := orc.Generate(ctx, orchestrator.Request{
		Subject: subject,
		Grade:   grade,
		UserID:  "preview",
		Count:   count,
	})
	if err != nil {
		return err
	}

	fmt.Printf("Source: %s\n\n", res.Source)
	for i, q := range res.Questions {
		printQuestion(i+1, q)
	}
	return nil
}

func printQuestion(n int, q *question.Question) {
	fmt.Printf("%d. [%s] %s\n", n, q.Shape, q.Prompt)

	switch q.Shape {
	case question.ShapeMultipleChoice:
		for i, opt := range q.Options {
			marker := " "
			if i == q.CorrectIndex {
				marker = "*"
			}
			fmt.Printf("   %s %c) %s\n", marker, 'a'+i, opt)
		}
	case question.ShapeWordSelection:
		var correct []string
		for _, tok := range q.Tokens {
			if tok.Correct {
				correct = append(correct, tok.Text)
			}
		}
		fmt.Printf("   Select: %s\n", strings.Join(correct, ", "))
	case question.ShapeMatching:
		for _, g := range q.Groups {
			accepted := make(map[string]bool, len(g.AcceptedItemIDs))
			for _, id := range g.AcceptedItemIDs {
				accepted[id] = true
			}
			var members []string
			for _, it := range q.Items {
				if accepted[it.ID] {
					members = append(members, it.Content)
				}
			}
			fmt.Printf("   %s: %s\n", g.Label, strings.Join(members, ", "))
		}
	default:
		fmt.Printf("   Answer: %s\n", answer.Localize(q.ExpectedAnswer))
	}

	if q.Explanation != "" {
		fmt.Printf("   (%s)\n", q.Explanation)
	}
	fmt.Println()
}
