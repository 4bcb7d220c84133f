// Package e2e runs full engine searches against a known catalog corpus and
// checks that the right records come back.
package e2e

import (
	"time"

	"github.com/access-ci/catsearch/internal/models"
)

// QueryCase is one query with the record ids it must surface.
type QueryCase struct {
	Description string
	Request     models.SearchRequest
	ExpectedIDs []string
}

// Corpus is a fixed catalog plus query cases over it.
type Corpus struct {
	Items     []models.CatalogItem
	TestCases []QueryCase
}

func date(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

// BuildCorpus returns the shared software-catalog fixture. Text fields are
// lowercase, matching what the adapters produce.
func BuildCorpus() Corpus {
	items := []models.CatalogItem{
		{
			ID: "gromacs", Title: "GROMACS",
			Text:        "gromacs molecular dynamics simulation package for biomolecular systems",
			Tags:        []string{"expanse", "anvil", "mpi"},
			Categorical: map[string][]string{"research_area": {"Chemistry", "Biophysics"}},
			Numeric:     map[string]float64{"amount": 50000},
			Dates:       map[string]time.Time{"start_date": date("2023-04-01")},
		},
		{
			ID: "lammps", Title: "LAMMPS",
			Text:        "lammps large-scale molecular dynamics for materials science",
			Tags:        []string{"expanse", "mpi"},
			Categorical: map[string][]string{"research_area": {"Materials Science"}},
			Numeric:     map[string]float64{"amount": 30000},
			Dates:       map[string]time.Time{"start_date": date("2022-09-15")},
		},
		{
			ID: "tensorflow", Title: "TensorFlow",
			Text:        "tensorflow machine learning framework with gpu acceleration",
			Tags:        []string{"gpu", "ml", "python"},
			Categorical: map[string][]string{"research_area": {"Computer Science"}},
			Numeric:     map[string]float64{"amount": 80000},
			Dates:       map[string]time.Time{"start_date": date("2024-01-10")},
		},
		{
			ID: "pytorch", Title: "PyTorch",
			Text:        "pytorch deep learning library with dynamic graphs and gpu support",
			Tags:        []string{"gpu", "ml", "python"},
			Categorical: map[string][]string{"research_area": {"Computer Science"}},
			Numeric:     map[string]float64{"amount": 75000},
			Dates:       map[string]time.Time{"start_date": date("2023-11-20")},
		},
		{
			ID: "paraview", Title: "ParaView",
			Text:        "paraview parallel scientific visualization application",
			Tags:        []string{"visualization", "graphics"},
			Categorical: map[string][]string{"research_area": {"Visualization"}},
			Numeric:     map[string]float64{"amount": 12000},
			Dates:       map[string]time.Time{"start_date": date("2021-06-30")},
		},
		{
			ID: "qiskit", Title: "Qiskit",
			Text:        "qiskit quantum computing framework for circuits and simulators",
			Tags:        []string{"quantum", "python"},
			Categorical: map[string][]string{"research_area": {"Physics", "Computer Science"}},
			Numeric:     map[string]float64{"amount": 45000},
			Dates:       map[string]time.Time{"start_date": date("2024-03-05")},
		},
	}

	cases := []QueryCase{
		{
			Description: "simple term",
			Request:     models.SearchRequest{Query: "quantum", Limit: 10},
			ExpectedIDs: []string{"qiskit"},
		},
		{
			Description: "implicit and narrows",
			Request:     models.SearchRequest{Query: "molecular materials", Limit: 10},
			ExpectedIDs: []string{"lammps"},
		},
		{
			Description: "or widens",
			Request:     models.SearchRequest{Query: "quantum OR visualization", Limit: 10},
			ExpectedIDs: []string{"qiskit", "paraview"},
		},
		{
			Description: "not excludes",
			Request:     models.SearchRequest{Query: "learning AND NOT tensorflow", Limit: 10},
			ExpectedIDs: []string{"pytorch"},
		},
		{
			Description: "quoted phrase is contiguous",
			Request:     models.SearchRequest{Query: `"molecular dynamics"`, Limit: 10},
			ExpectedIDs: []string{"gromacs", "lammps"},
		},
		{
			Description: "tag filter combines with query",
			Request: models.SearchRequest{
				Query:   "learning",
				Filters: models.FilterSpec{Tags: []string{"gpu"}},
				Limit:   10,
			},
			ExpectedIDs: []string{"tensorflow", "pytorch"},
		},
		{
			Description: "categorical filter alone",
			Request: models.SearchRequest{
				Filters: models.FilterSpec{Categorical: map[string][]string{"research_area": {"chemistry"}}},
				Limit:   10,
			},
			ExpectedIDs: []string{"gromacs"},
		},
		{
			Description: "identifier lookup",
			Request:     models.SearchRequest{ID: "QISKIT", Limit: 10},
			ExpectedIDs: []string{"qiskit"},
		},
		{
			Description: "similarity threshold keeps close matches",
			Request: models.SearchRequest{
				Query:        "gpu",
				SimilarityTo: []string{"gpu", "ml"},
				Threshold:    0.9,
				Limit:        10,
			},
			ExpectedIDs: []string{"tensorflow", "pytorch"},
		},
	}

	return Corpus{Items: items, TestCases: cases}
}
