package activecampaign

import "context"

// API defines the interface for the ActiveCampaign SDK.
type API interface {
	// CreateMailingList creates a mailing list and returns its id.
	CreateMailingList(ctx context.Context, req ListAddRequest) (int, error)

	// CreateContact creates a contact subscribed to the given mailing lists.
	CreateContact(ctx context.Context, req ContactAddRequest) (int, error)

	// CreateHTMLMessage creates an HTML message targeting the given mailing lists.
	CreateHTMLMessage(ctx context.Context, req HTMLMessageAddRequest) (int, error)

	// CreateSingleCampaign creates and schedules a single-message campaign.
	CreateSingleCampaign(ctx context.Context, req SingleCampaignRequest) (int, error)
}
