package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// BillType represents the kind of utility a bill is for
type BillType string

const (
	BillTypeMilk        BillType = "milk"
	BillTypeWater       BillType = "water"
	BillTypeElectricity BillType = "electricity"
	BillTypeGas         BillType = "gas"
	BillTypeInternet    BillType = "internet"
)

// UtilityBill represents a document in the utility_bills collection.
// Date is a day-precision field stored as a UTC-midnight instant.
type UtilityBill struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	BillType    BillType           `bson:"bill_type" json:"bill_type"`
	UserID      primitive.ObjectID `bson:"user_id" json:"user_id"`
	Amount      float64            `bson:"amount" json:"amount"`
	Consumption float64            `bson:"consumption" json:"consumption"`
	Unit        string             `bson:"unit" json:"unit"`
	Date        time.Time          `bson:"date" json:"date"`
	Notes       string             `bson:"notes,omitempty" json:"notes,omitempty"`
}
