package services

import (
	"encoding/json"
	"fmt"
	"hash/fnv"

	"github.com/alphabatem/common/context"
	"github.com/radmastery/radprep_api/model"
	"github.com/radmastery/radprep_api/services/repositories"
	"github.com/radmastery/radprep_api/shared"
	log "github.com/sirupsen/logrus"
)

// McqService turns raw catalog cases into MCQ-shaped cards. Cases with
// pre-authored questions pass through; for the rest the question is built
// from the case itself with distractor diagnoses pulled from related cases.
type McqService struct {
	context.DefaultService

	sqlSvc DatabaseService
}

const MCQ_SVC = "mcq_svc"

const distractorCount = 3

func (svc McqService) Id() string {
	return MCQ_SVC
}

func (svc *McqService) Configure(ctx *context.Context) error {
	return svc.DefaultService.Configure(ctx)
}

func (svc *McqService) Start() error {
	svc.sqlSvc = svc.Service(SQL_SVC).(DatabaseService)
	return nil
}

// BuildCard produces the immutable card value a session stores for a case.
func (svc *McqService) BuildCard(c model.Case) (model.CardRef, error) {
	card := model.CardRef{
		CaseID:     c.ID,
		Title:      c.Title,
		ImageURL:   c.ImageURL,
		Difficulty: c.Difficulty,
		Specialty:  c.Specialty,
	}

	if len(c.Options) > 0 {
		var options []string
		if err := json.Unmarshal(c.Options, &options); err != nil {
			return model.CardRef{}, shared.NewInternalError(err, "Malformed case options")
		}
		if c.CorrectIndex < 0 || c.CorrectIndex >= len(options) {
			return model.CardRef{}, shared.NewInternalError(
				fmt.Errorf("correct index %d out of range for %d options", c.CorrectIndex, len(options)),
				"Malformed case options")
		}
		card.Question = c.Question
		card.Options = options
		card.CorrectAnswerIndex = c.CorrectIndex
		card.Explanation = c.Explanation
		return card, nil
	}

	options, correctIndex, err := svc.buildDiagnosisOptions(c)
	if err != nil {
		return model.CardRef{}, err
	}

	card.Question = fmt.Sprintf("A %s study of the %s is shown. What is the most likely diagnosis?", c.Modality, c.BodyPart)
	card.Options = options
	card.CorrectAnswerIndex = correctIndex
	card.Explanation = fmt.Sprintf("The findings are characteristic of %s.", c.Diagnosis)
	return card, nil
}

// buildDiagnosisOptions samples distractor diagnoses from the same
// specialty, falling back to the whole catalog when the specialty is thin.
// The correct answer's slot is derived from the case id so the same case
// always renders the same option order.
func (svc *McqService) buildDiagnosisOptions(c model.Case) ([]string, int, error) {
	siblings, err := svc.sqlSvc.Catalog().RandomCases(repositories.CaseFilter{
		Specialty: c.Specialty,
	}, distractorCount*3)
	if err != nil {
		return nil, 0, shared.NewPersistenceError(err, "Failed to sample distractors")
	}

	distractors := pickDistractors(siblings, c, distractorCount)
	if len(distractors) < distractorCount {
		broader, err := svc.sqlSvc.Catalog().RandomCases(repositories.CaseFilter{}, distractorCount*3)
		if err != nil {
			return nil, 0, shared.NewPersistenceError(err, "Failed to sample distractors")
		}
		for _, d := range pickDistractors(broader, c, distractorCount) {
			if len(distractors) >= distractorCount {
				break
			}
			if !containsOption(distractors, d) {
				distractors = append(distractors, d)
			}
		}
	}

	if len(distractors) == 0 {
		log.WithField("case_id", c.ID).Warn("No distractor diagnoses available, emitting single-option card")
		return []string{c.Diagnosis}, 0, nil
	}

	correctIndex := int(stableHash(c.ID) % uint32(len(distractors)+1))

	options := make([]string, 0, len(distractors)+1)
	options = append(options, distractors[:correctIndex]...)
	options = append(options, c.Diagnosis)
	options = append(options, distractors[correctIndex:]...)
	return options, correctIndex, nil
}

func pickDistractors(candidates []model.Case, target model.Case, limit int) []string {
	var distractors []string
	for _, candidate := range candidates {
		if len(distractors) >= limit {
			break
		}
		if candidate.ID == target.ID || candidate.Diagnosis == target.Diagnosis {
			continue
		}
		if containsOption(distractors, candidate.Diagnosis) {
			continue
		}
		distractors = append(distractors, candidate.Diagnosis)
	}
	return distractors
}

func containsOption(options []string, option string) bool {
	for _, o := range options {
		if o == option {
			return true
		}
	}
	return false
}

func stableHash(s string) uint32 {
	h := fnv.New32a()
	_, _ = h.Write([]byte(s))
	return h.Sum32()
}
