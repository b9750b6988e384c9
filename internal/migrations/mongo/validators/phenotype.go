package validators

import "go.mongodb.org/mongo-driver/bson"

var PhenotypeValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType": "object",
		"required": []string{
			"characteristic",
			"user_phenotypes_count",
			"created_at",
		},
		"additionalProperties": true,

		"properties": bson.M{
			"_id": bson.M{
				"bsonType": "objectId",
			},

			"characteristic": bson.M{
				"bsonType":  "string",
				"minLength": 1,
				"maxLength": 200,
			},

			"description": bson.M{
				"bsonType":  "string",
				"maxLength": 2000,
			},

			"user_phenotypes_count": bson.M{
				"bsonType": []string{"int", "long"},
				"minimum":  0,
			},

			"created_at": bson.M{
				"bsonType": "date",
			},
		},
	},
}

// UserPhenotypeValidator requires a variation string. An empty variation is
// rejected by the service before it reaches the collection.
var UserPhenotypeValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType": "object",
		"required": []string{
			"phenotype_id",
			"user_id",
			"variation",
			"created_at",
		},
		"additionalProperties": true,

		"properties": bson.M{
			"_id": bson.M{
				"bsonType": "objectId",
			},

			"phenotype_id": bson.M{
				"bsonType":  "string",
				"minLength": 24,
				"maxLength": 24,
			},

			"user_id": bson.M{
				"bsonType":  "string",
				"minLength": 24,
				"maxLength": 24,
			},

			"variation": bson.M{
				"bsonType":  "string",
				"minLength": 1,
				"maxLength": 500,
			},

			"created_at": bson.M{
				"bsonType": "date",
			},
		},
	},
}

var PhenotypeCommentValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType": "object",
		"required": []string{
			"phenotype_id",
			"user_id",
			"comment_text",
			"created_at",
		},
		"additionalProperties": true,

		"properties": bson.M{
			"phenotype_id": bson.M{
				"bsonType": "string",
			},

			"user_id": bson.M{
				"bsonType": "string",
			},

			"subject": bson.M{
				"bsonType":  "string",
				"maxLength": 200,
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
