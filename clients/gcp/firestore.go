package gcp

import (
	"context"
	"log"

	"cloud.google.com/go/firestore"
)

// CreateFirestore builds the process-wide Firestore client. The caller
// owns it and closes it on shutdown.
func CreateFirestore(ctx context.Context, projectID string) *firestore.Client {
	client, err := firestore.NewClient(ctx, projectID)
	if err != nil {
		log.Fatalf("Failed to create firestore client: %v", err)
	}
	return client
}
