package validator

import (
	"errors"
	"strings"
	"testing"

	"snpr/pkg/model"
)

func validGenotype() model.Genotype {
	return model.Genotype{
		UserID:           "65f1a2b3c4d5e6f7a8b9c0d1",
		Filetype:         model.Filetype23andMe,
		FileKey:          "genotypes/65f1a2b3c4d5e6f7a8b9c0d1/abc-genome.txt",
		OriginalFilename: "genome.txt",
		Status:           model.GenotypePending,
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(g *model.Genotype)
		wantField string
	}{
		{name: "valid", mutate: func(g *model.Genotype) {}},
		{name: "every filetype accepted", mutate: func(g *model.Genotype) { g.Filetype = model.FiletypeIYG }},
		{name: "unknown filetype", mutate: func(g *model.Genotype) { g.Filetype = "myheritage" }, wantField: "filetype"},
		{name: "filetype is case-sensitive", mutate: func(g *model.Genotype) { g.Filetype = "iyg" }, wantField: "filetype"},
		{name: "missing user", mutate: func(g *model.Genotype) { g.UserID = "" }, wantField: "user_id"},
		{name: "bad user id", mutate: func(g *model.Genotype) { g.UserID = "alice" }, wantField: "user_id"},
		{name: "missing file key", mutate: func(g *model.Genotype) { g.FileKey = "" }, wantField: "FileKey"},
		{name: "long filename", mutate: func(g *model.Genotype) { g.OriginalFilename = strings.Repeat("a", 256) }, wantField: "original_filename"},
		{name: "bad status", mutate: func(g *model.Genotype) { g.Status = "done" }, wantField: "status"},
	}

	v := NewGenotypeValidator()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := validGenotype()
			tt.mutate(&g)

			err := v.Validate(&g)
			if tt.wantField == "" {
				if err != nil {
					t.Fatalf("Validate() error = %v", err)
				}
				return
			}

			var errs ValidationErrors
			if !errors.As(err, &errs) {
				t.Fatalf("Validate() error = %v, want ValidationErrors", err)
			}
			if _, ok := errs.Details()[tt.wantField]; !ok {
				t.Errorf("details = %v, want field %q", errs.Details(), tt.wantField)
			}
		})
	}
}
