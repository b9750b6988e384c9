package validators

import (
	"go.mongodb.org/mongo-driver/bson"

	"snpr/pkg/model"
)

var GenotypeValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType": "object",
		"required": []string{
			"user_id",
			"filetype",
			"file_key",
			"original_filename",
			"status",
			"created_at",
		},
		"additionalProperties": true,

		"properties": bson.M{
			"_id": bson.M{
				"bsonType": "objectId",
			},

			"user_id": bson.M{
				"bsonType":  "string",
				"minLength": 24,
				"maxLength": 24,
			},

			"filetype": bson.M{
				"enum": model.Filetypes,
			},

			"file_key": bson.M{
				"bsonType":  "string",
				"minLength": 1,
			},

			"original_filename": bson.M{
				"bsonType":  "string",
				"maxLength": 255,
			},

			"status": bson.M{
				"enum": []string{
					model.GenotypePending,
					model.GenotypeParsing,
					model.GenotypeParsed,
					model.GenotypeFailed,
				},
			},

			"parsed_snps": bson.M{
				"bsonType": []string{"int", "long"},
				"minimum":  0,
			},

			"created_at": bson.M{
				"bsonType": "date",
			},

			"parsed_at": bson.M{
				"bsonType": "date",
			},
		},
	},
}

var SnpValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType": "object",
		"required": []string{
			"name",
			"chromosome",
			"position",
			"created_at",
		},
		"additionalProperties": true,

		"properties": bson.M{
			"name": bson.M{
				"bsonType":  "string",
				"minLength": 1,
			},

			"chromosome": bson.M{
				"bsonType": "string",
			},

			"position": bson.M{
				"bsonType": "string",
			},

			"allele_frequency": bson.M{
				"bsonType": "object",
			},

			"genotype_frequency": bson.M{
				"bsonType": "object",
			},

			"user_snps_count": bson.M{
				"bsonType": []string{"int", "long"},
				"minimum":  0,
			},

			"created_at": bson.M{
				"bsonType": "date",
			},
		},
	},
}

var UserSnpValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType": "object",
		"required": []string{
			"snp_name",
			"genotype_id",
			"user_id",
			"local_genotype",
			"created_at",
		},
		"additionalProperties": true,

		"properties": bson.M{
			"snp_name": bson.M{
				"bsonType": "string",
			},

			"genotype_id": bson.M{
				"bsonType": "string",
			},

			"user_id": bson.M{
				"bsonType": "string",
			},

			"local_genotype": bson.M{
				"bsonType": "string",
			},

			"created_at": bson.M{
				"bsonType": "date",
			},
		},
	},
}

var SnpCommentValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType": "object",
		"required": []string{
			"snp_name",
			"user_id",
			"comment_text",
			"created_at",
		},
		"additionalProperties": true,

		"properties": bson.M{
			"snp_name": bson.M{
				"bsonType": "string",
			},

			"user_id": bson.M{
				"bsonType": "string",
			},

			"comment_text": bson.M{
				"bsonType": "string",
			},

			"created_at": bson.M{
				"bsonType": "date",
			},
		},
	},
}
