package validators

import "go.mongodb.org/mongo-driver/bson"

var BookingValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType": "object",
		"required": []string{
			"specialist_id",
			"patient_id",
			"date",
			"slot_time",
			"duration_days",
			"location_type",
			"status",
			"payment_mode",
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

			"patient_id": bson.M{
				"bsonType":  "string",
				"minLength": 24,
				"maxLength": 24,
			},

			"date": bson.M{
				"bsonType": "date",
			},

			"slot_time": bson.M{
				"bsonType": "string",
				"pattern":  `^(0[1-9]|1[0-2]):[0-5][0-9] (AM|PM)$`,
			},

			"duration_days": bson.M{
				"bsonType": "int",
				"minimum":  1,
			},

			"location_type": bson.M{
				"bsonType": "string",
				"enum": []string{
					"CLINIC",
					"HOME",
					"VIDEO",
				},
			},

			"status": bson.M{
				"bsonType": "string",
				"enum": []string{
					"UPCOMING",
					"COMPLETED",
					"CANCELLED",
					"SKIPPED",
				},
			},

			"payment_mode": bson.M{
				"bsonType": "string",
				"enum": []string{
					"PREPAID",
					"PAY_LATER",
				},
			},

			"total_price": bson.M{
				"bsonType": "long",
				"minimum":  0,
			},

			"amount_paid": bson.M{
				"bsonType": "long",
				"minimum":  0,
			},

			"created_at": bson.M{
				"bsonType": "date",
			},
		},
	},
}
