// Package e2e runs the full engine against a catalog large enough to make
// ranking mistakes visible.
package e2e

import (
	"fmt"

	"github.com/hyperjump/tansaku/internal/models"
)

// QueryCase is one query with the document ID(s) that must appear in its
// results. At least one of ExpectedIDs must show up.
type QueryCase struct {
	Query       string
	ExpectedIDs []string
	Description string
}

// Corpus holds a catalog and the query cases that probe it.
type Corpus struct {
	Documents []*models.Document
	Cases     []QueryCase
}

// BuildCorpus returns a catalog of 40 handcrafted entries plus 40 generic
// filler notes, with query cases keyed to vocabulary that appears in exactly
// one handcrafted entry. The filler adds ranking noise without colliding
// with any case vocabulary.
func BuildCorpus() *Corpus {
	docs := append(catalogEntries(), fillerNotes(40)...)
	return &Corpus{
		Documents: docs,
		Cases:     queryCases(),
	}
}

func catalogEntries() []*models.Document {
	entries := []struct {
		id, title, description, category string
		tags                             []string
		content                          string
	}{
		{"bug-hunter", "Bug Hunter", "Turns a raw stack trace into ranked failure hypotheses.", "coding",
			[]string{"debugging", "triage"},
			"Paste a stack trace and the surrounding log lines. Produces likely root causes ordered by confidence."},
		{"changelog-writer", "Changelog Writer", "Drafts changelog entries grouped by audience impact.", "writing",
			[]string{"release"},
			"Reads merged pull request titles and writes changelog sections covering features, fixes, breaking changes."},
		{"release-memo-maker", "Release Memo Maker", "Writes the launch memo for a shipped feature.", "marketing",
			[]string{"announcement"},
			"Collects highlights, picks a headline angle, drafts the customer-facing launch memo."},
		{"idea-wizard", "Idea Wizard", "Generates campaign concepts around a product theme.", "writing",
			[]string{"brainstorm"},
			"Give it a theme and an audience. Returns ten concepts ranked by novelty."},
		{"sql-optimizer", "SQL Optimizer", "Rewrites slow queries and proposes covering indexes.", "coding",
			[]string{"database", "performance"},
			"Reads an explain plan, spots sequential scans, suggests predicate pushdown and index changes."},
		{"meeting-scribe", "Meeting Scribe", "Turns rough transcripts into minutes and action items.", "productivity",
			[]string{"notes"},
			"Feeds on a transcript, emits decisions, owners and deadlines."},
		{"onboarding-coach", "Onboarding Coach", "Builds a first-week ramp plan for a new teammate.", "support",
			[]string{"training"},
			"Asks about the role, produces a day-by-day ramp schedule and reading list."},
		{"regex-builder", "Regex Builder", "Converts plain-language patterns into tested regular expressions.", "coding",
			[]string{"text"},
			"Describe what should match and what must not. Returns the expression plus edge-case examples."},
		{"persona-profiler", "Persona Profiler", "Distills interview data into buyer personas.", "marketing",
			[]string{"research"},
			"Clusters quotes, names each persona, lists motivations and objections."},
		{"survey-analyst", "Survey Analyst", "Summarizes questionnaire responses with significance checks.", "analysis",
			[]string{"statistics"},
			"Cross-tabulates answers, flags significant deltas, writes the findings narrative."},
		{"roadmap-planner", "Roadmap Planner", "Sequences quarterly initiatives against capacity.", "planning",
			[]string{"strategy"},
			"Takes ranked initiatives plus team capacity, returns a quarter-by-quarter sequence."},
		{"retro-facilitator", "Retro Facilitator", "Runs a structured retrospective and groups themes.", "planning",
			[]string{"team"},
			"Collects went-well and went-poorly items, clusters themes, proposes experiments."},
		{"email-polisher", "Email Polisher", "Tightens drafts while keeping the sender's voice.", "writing",
			[]string{"communication"},
			"Shortens sentences, fixes hedging, keeps tone intact."},
		{"headline-tester", "Headline Tester", "Scores alternative headlines against clarity rules.", "marketing",
			[]string{"copy"},
			"Rates each variant on curiosity, clarity, and length. Explains every deduction."},
		{"api-docsmith", "API Docsmith", "Writes endpoint reference pages out of handler signatures.", "writing",
			[]string{"documentation"},
			"Reads routes and types, emits parameter tables and curl samples."},
		{"incident-narrator", "Incident Narrator", "Drafts a blameless postmortem timeline.", "support",
			[]string{"postmortem"},
			"Orders events, separates trigger and impact, lists remediation items."},
		{"budget-forecaster", "Budget Forecaster", "Projects spend lines under growth scenarios.", "analysis",
			[]string{"finance"},
			"Takes historical spend, produces optimistic and pessimistic projections with assumptions."},
		{"contract-reviewer", "Contract Reviewer", "Highlights risky clauses in vendor agreements.", "legal",
			[]string{"review"},
			"Flags indemnity, liability caps, and auto-renewal traps for counsel follow-up."},
		{"interview-drafter", "Interview Drafter", "Builds structured interview loops per competency.", "hiring",
			[]string{"questions"},
			"Maps competencies to question banks with calibrated scoring rubrics."},
		{"tone-adjuster", "Tone Adjuster", "Shifts copy between formal and casual registers.", "writing",
			[]string{"style"},
			"Slide the register up or down without losing meaning."},
		{"test-case-gen", "Test Case Generator", "Derives boundary test cases out of acceptance criteria.", "coding",
			[]string{"quality"},
			"Parses given-when-then criteria, enumerates boundary and negative cases."},
		{"standup-summarizer", "Standup Summarizer", "Condenses async standup threads into blockers.", "productivity",
			[]string{"digest"},
			"Collects updates, surfaces blockers, pings owners."},
		{"pricing-modeler", "Pricing Modeler", "Compares tiered pricing structures on sample cohorts.", "analysis",
			[]string{"revenue"},
			"Simulates cohorts against tier ladders, reports expansion and churn sensitivity."},
		{"faq-builder", "FAQ Builder", "Mines support tickets into a deduplicated FAQ.", "support",
			[]string{"knowledge"},
			"Clusters tickets, writes canonical answers, links runbook references."},
		{"slide-outliner", "Slide Outliner", "Turns a narrative doc into a slide skeleton.", "productivity",
			[]string{"presentation"},
			"One argument per slide, speaker cues included."},
		{"code-reviewer", "Code Reviewer", "Reviews diffs for correctness hazards before humans do.", "coding",
			[]string{"review"},
			"Checks nil handling, off-by-one windows, and lock ordering in the diff."},
		{"brand-voice-keeper", "Brand Voice Keeper", "Audits copy against the brand vocabulary guide.", "marketing",
			[]string{"style"},
			"Flags banned words, suggests on-brand replacements."},
		{"churn-detective", "Churn Detective", "Explains cancellation cohorts with feature usage.", "analysis",
			[]string{"retention"},
			"Correlates cancellation timing with usage cliffs and support contacts."},
		{"sprint-groomer", "Sprint Groomer", "Splits oversized tickets into shippable slices.", "planning",
			[]string{"backlog"},
			"Finds vertical slices, writes acceptance criteria per slice."},
		{"localization-helper", "Localization Helper", "Prepares strings for translation with context notes.", "writing",
			[]string{"i18n"},
			"Extracts strings, annotates placeholders, warns about concatenation."},
		{"security-auditor", "Security Auditor", "Walks a threat checklist over a design document.", "coding",
			[]string{"security"},
			"Covers authentication, injection surfaces, and secrets handling."},
		{"press-kit-packer", "Press Kit Packer", "Assembles press boilerplate, quotes, and imagery lists.", "marketing",
			[]string{"media"},
			"Generates the boilerplate paragraph, executive quotes, and asset checklist."},
		{"okr-refiner", "OKR Refiner", "Sharpens fuzzy objectives into measurable key results.", "planning",
			[]string{"goals"},
			"Rejects output-shaped metrics, proposes outcome metrics with baselines."},
		{"data-dictionary", "Data Dictionary Curator", "Documents warehouse tables with owner and freshness.", "analysis",
			[]string{"catalog"},
			"Tracks column lineage, owners, and freshness service levels."},
		{"escalation-router", "Escalation Router", "Routes angry tickets to the right severity lane.", "support",
			[]string{"triage"},
			"Classifies sentiment and contract tier, picks the severity lane."},
		{"naming-consultant", "Naming Consultant", "Proposes memorable names vetted against trademarks.", "marketing",
			[]string{"branding"},
			"Generates candidates, screens pronounceability and collision risk."},
		{"migration-mapper", "Migration Mapper", "Plans zero-downtime schema migration steps.", "coding",
			[]string{"database"},
			"Orders expand-migrate-contract steps with rollback points."},
		{"learning-path-guide", "Learning Path Guide", "Builds a skills curriculum toward a target role.", "support",
			[]string{"growth"},
			"Sequences courses and practice projects toward the target role."},
		{"compliance-checker", "Compliance Checker", "Maps product flows onto regulatory obligations.", "legal",
			[]string{"audit"},
			"Walks data flows against retention and consent obligations."},
		{"weekly-digest-bot", "Weekly Digest Bot", "Compiles the team newsletter out of merged work.", "productivity",
			[]string{"newsletter"},
			"Gathers shipped work, writes a skimmable weekly newsletter."},
	}

	docs := make([]*models.Document, 0, len(entries))
	for _, e := range entries {
		docs = append(docs, &models.Document{
			ID:          e.id,
			Title:       e.title,
			Description: e.description,
			Category:    e.category,
			Tags:        e.tags,
			Content:     e.content,
		})
	}
	return docs
}

// fillerNotes pads the catalog with generic documents that share vocabulary
// with each other but not with any query case.
func fillerNotes(n int) []*models.Document {
	docs := make([]*models.Document, 0, n)
	for i := 1; i <= n; i++ {
		docs = append(docs, &models.Document{
			ID:          fmt.Sprintf("workspace-note-%03d", i),
			Title:       fmt.Sprintf("Workspace Note %d", i),
			Description: "General notebook page kept around the workspace.",
			Category:    "notes",
			Tags:        []string{"notebook"},
			Content:     fmt.Sprintf("Notebook page %d holding loose thoughts, links, and open follow-ups.", i),
		})
	}
	return docs
}

func queryCases() []QueryCase {
	return []QueryCase{
		{"stack trace", []string{"bug-hunter"}, "stack trace finds the debugger"},
		{"changelog", []string{"changelog-writer"}, "changelog finds the changelog writer"},
		{"launch memo", []string{"release-memo-maker"}, "launch memo finds the memo maker"},
		{"campaign concepts", []string{"idea-wizard"}, "campaign finds the idea wizard"},
		{"slow queries indexes", []string{"sql-optimizer"}, "query tuning finds the optimizer"},
		{"meeting minutes", []string{"meeting-scribe"}, "minutes find the scribe"},
		{"ramp plan teammate", []string{"onboarding-coach"}, "ramp plan finds the coach"},
		{"regular expressions", []string{"regex-builder"}, "regex finds the builder"},
		{"buyer personas", []string{"persona-profiler"}, "personas find the profiler"},
		{"questionnaire responses", []string{"survey-analyst"}, "questionnaire finds the analyst"},
		{"quarterly initiatives", []string{"roadmap-planner"}, "initiatives find the planner"},
		{"retrospective", []string{"retro-facilitator"}, "retrospective finds the facilitator"},
		{"headline clarity", []string{"headline-tester"}, "headline finds the tester"},
		{"endpoint reference", []string{"api-docsmith"}, "endpoint docs find the docsmith"},
		{"blameless postmortem", []string{"incident-narrator"}, "postmortem finds the narrator"},
		{"spend projections", []string{"budget-forecaster"}, "projections find the forecaster"},
		{"risky clauses", []string{"contract-reviewer"}, "clauses find the reviewer"},
		{"interview loops", []string{"interview-drafter"}, "interview loops find the drafter"},
		{"boundary test cases", []string{"test-case-gen"}, "boundary cases find the generator"},
		{"tiered pricing", []string{"pricing-modeler"}, "pricing finds the modeler"},
		{"support tickets faq", []string{"faq-builder"}, "tickets find the faq builder"},
		{"slide skeleton", []string{"slide-outliner"}, "slides find the outliner"},
		{"cancellation cohorts", []string{"churn-detective"}, "cancellation finds the detective"},
		{"shippable slices", []string{"sprint-groomer"}, "slices find the groomer"},
		{"translation placeholders", []string{"localization-helper"}, "translation finds the helper"},
		{"threat checklist", []string{"security-auditor"}, "threats find the auditor"},
		{"press boilerplate", []string{"press-kit-packer"}, "press kit finds the packer"},
		{"measurable key results", []string{"okr-refiner"}, "key results find the refiner"},
		{"column lineage", []string{"data-dictionary"}, "lineage finds the curator"},
		{"severity lane", []string{"escalation-router"}, "severity finds the router"},
		{"memorable names trademarks", []string{"naming-consultant"}, "naming finds the consultant"},
		{"schema migration rollback", []string{"migration-mapper"}, "migration finds the mapper"},
		{"skills curriculum", []string{"learning-path-guide"}, "curriculum finds the guide"},
		{"regulatory obligations", []string{"compliance-checker"}, "obligations find the checker"},
		{"team newsletter", []string{"weekly-digest-bot"}, "newsletter finds the digest bot"},
	}
}
