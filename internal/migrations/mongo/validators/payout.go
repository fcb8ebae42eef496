package validators

import "go.mongodb.org/mongo-driver/bson"

var BankAccountValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType": "object",
		"required": []string{
			"specialist_id",
			"holder_name",
			"account_number",
			"bank_code",
			"created_at",
		},
		"additionalProperties": true,

		"properties": bson.M{
			"_id": bson.M{
				"bsonType": "objectId",
			},

			"specialist_id": bson.M{
				"bsonType":  "string",
				"minLength": 24,
				"maxLength": 24,
			},

			"holder_name": bson.M{
				"bsonType":  "string",
				"minLength": 2,
				"maxLength": 100,
			},

			"account_number": bson.M{
				"bsonType":  "string",
				"minLength": 6,
				"maxLength": 34,
			},

			"bank_code": bson.M{
				"bsonType":  "string",
				"minLength": 4,
				"maxLength": 11,
			},

			"created_at": bson.M{
				"bsonType": "date",
			},
		},
	},
}

var PayoutRequestValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType": "object",
		"required": []string{
			"specialist_id",
			"amount",
			"status",
			"created_at",
		},
		"additionalProperties": true,

		"properties": bson.M{
			"_id": bson.M{
				"bsonType": "objectId",
			},

			"specialist_id": bson.M{
				"bsonType":  "string",
				"minLength": 24,
				"maxLength": 24,
			},

			"amount": bson.M{
				"bsonType": "long",
				"minimum":  1,
			},

			"status": bson.M{
				"bsonType": "string",
				"enum": []string{
					"PENDING",
					"APPROVED",
					"REJECTED",
					"PAID",
				},
			},

			"reference": bson.M{
				"bsonType": "string",
			},

			"created_at": bson.M{
				"bsonType": "date",
			},
		},
	},
}
