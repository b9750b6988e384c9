package model

import "time"

type Filetype = string

const (
	Filetype23andMe    Filetype = "23andme"
	FiletypeAncestry   Filetype = "ancestry"
	FiletypeDecodeMe   Filetype = "decodeme"
	FiletypeFTDNA      Filetype = "ftdna-illumina"
	Filetype23andMeVCF Filetype = "23andme-exome-vcf"
	FiletypeIYG        Filetype = "IYG"
)

var Filetypes = []Filetype{
	Filetype23andMe,
	FiletypeAncestry,
	FiletypeDecodeMe,
	FiletypeFTDNA,
	Filetype23andMeVCF,
	FiletypeIYG,
}

type GenotypeStatus = string

const (
	GenotypePending GenotypeStatus = "pending"
	GenotypeParsing GenotypeStatus = "parsing"
	GenotypeParsed  GenotypeStatus = "parsed"
	GenotypeFailed  GenotypeStatus = "failed"
)

type Genotype struct {
	ID               string     `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	UserID           string     `json:"user_id" bson:"user_id" validate:"required,mongodb"`
	Filetype         Filetype   `json:"filetype" bson:"filetype" validate:"required,genotype_filetype"`
	FileKey          string     `json:"-" bson:"file_key" validate:"required"`
	OriginalFilename string     `json:"original_filename" bson:"original_filename" validate:"required,max=255"`
	Status           string     `json:"status" bson:"status" validate:"required,oneof=pending parsing parsed failed"`
	ParsedSNPs       int        `json:"parsed_snps" bson:"parsed_snps"`
	Error            string     `json:"error,omitempty" bson:"error,omitempty"`
	CreatedAt        time.Time  `json:"created_at" bson:"created_at"`
	ParsedAt         *time.Time `json:"parsed_at,omitempty" bson:"parsed_at,omitempty"`
}

type Snp struct {
	ID                string         `json:"id,omitempty" bson:"_id,omitempty"`
	Name              string         `json:"name" bson:"name"`
	Chromosome        string         `json:"chromosome" bson:"chromosome"`
	Position          string         `json:"position" bson:"position"`
	Ranking           int            `json:"ranking" bson:"ranking"`
	AlleleFrequency   map[string]int `json:"allele_frequency" bson:"allele_frequency"`
	GenotypeFrequency map[string]int `json:"genotype_frequency" bson:"genotype_frequency"`
	UserSnpsCount     int            `json:"user_snps_count" bson:"user_snps_count"`
	CreatedAt         time.Time      `json:"created_at" bson:"created_at"`
}

type UserSnp struct {
	ID            string    `json:"id,omitempty" bson:"_id,omitempty"`
	SnpName       string    `json:"snp_name" bson:"snp_name"`
	GenotypeID    string    `json:"genotype_id" bson:"genotype_id"`
	UserID        string    `json:"user_id" bson:"user_id"`
	LocalGenotype string    `json:"local_genotype" bson:"local_genotype"`
	CreatedAt     time.Time `json:"created_at" bson:"created_at"`
}

type SnpComment struct {
	ID          string    `json:"id,omitempty" bson:"_id,omitempty"`
	SnpName     string    `json:"snp_name" bson:"snp_name"`
	UserID      string    `json:"user_id" bson:"user_id"`
	Subject     string    `json:"subject" bson:"subject"`
	CommentText string    `json:"comment_text" bson:"comment_text"`
	CreatedAt   time.Time `json:"created_at" bson:"created_at"`
}
