package controllers

import (
	"context"

	"backend/config"
	"backend/models"
	"backend/utils"
)

// appendTransaction writes one journal entry. The journal is append-only;
// the single exception is booking repricing, which updates the original
// charge in place (see RescheduleBooking).
func appendTransaction(ctx context.Context, txnType string, amount float64, source, referenceID, referenceModel, createdBy string) error {
	txn := models.Transaction{
		Type:           txnType,
		Amount:         amount,
		Source:         source,
		ReferenceID:    referenceID,
		ReferenceModel: referenceModel,
		Date:           utils.Now(),
		CreatedBy:      createdBy,
	}
	_, err := config.TransactionCollection.InsertOne(ctx, txn)
	return err
}
