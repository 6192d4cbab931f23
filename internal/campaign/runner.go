package campaign

import (
	"context"
	"fmt"

	logf "sigs.k8s.io/controller-runtime/pkg/log"

	"go.miloapis.com/email-provider-activecampaign/internal/contacts"
	"go.miloapis.com/email-provider-activecampaign/pkg/activecampaign"
)

// Sender identifies who the campaign is from. It becomes the mailing list's
// sender details and the message's from and reply-to fields.
type Sender struct {
	Name    string
	Email   string
	Address string
	City    string
	Zip     string
	Country string
}

// Plan is everything needed to set up and schedule one campaign.
type Plan struct {
	Name     string
	SendDate string
	Subject  string
	HTML     string
	Sender   Sender
	Contacts []contacts.Contact
}

// Result holds the ids assigned by ActiveCampaign.
type Result struct {
	MailingListID int
	ContactIDs    []int
	MessageID     int
	CampaignID    int
}

// Runner creates the mailing list, contacts, message and campaign of a Plan in order.
type Runner struct {
	API activecampaign.API
}

// MailingListName is the name given to the list created for a campaign.
func MailingListName(campaign string) string {
	return fmt.Sprintf("%s - Mailing List", campaign)
}

// Run executes the plan and stops at the first failure. Resources created
// before the failure are left in place and reported in the returned Result.
func (r *Runner) Run(ctx context.Context, plan Plan) (Result, error) {
	log := logf.FromContext(ctx).WithValues("campaign", plan.Name)
	var result Result

	listID, err := r.API.CreateMailingList(ctx, activecampaign.ListAddRequest{
		Name:          MailingListName(plan.Name),
		SenderName:    plan.Sender.Name,
		SenderAddress: plan.Sender.Address,
		SenderCity:    plan.Sender.City,
		SenderZip:     plan.Sender.Zip,
		SenderCountry: plan.Sender.Country,
	})
	if err != nil {
		log.Error(err, "Failed to create mailing list")
		return result, fmt.Errorf("failed to create mailing list: %w", err)
	}
	result.MailingListID = listID
	log = log.WithValues("mailingList", listID)
	log.Info("Created mailing list")

	lists := []int{listID}
	for _, c := range plan.Contacts {
		id, err := r.API.CreateContact(ctx, activecampaign.ContactAddRequest{
			Email:          c.Email,
			FirstName:      c.FirstName,
			LastName:       c.LastName,
			MailingListIDs: lists,
		})
		if err != nil {
			log.Error(err, "Failed to create contact", "email", c.Email, "created", len(result.ContactIDs))
			return result, fmt.Errorf("failed to create contact %s: %w", c.Email, err)
		}
		result.ContactIDs = append(result.ContactIDs, id)
	}
	log.Info("Created contacts", "count", len(result.ContactIDs))

	messageID, err := r.API.CreateHTMLMessage(ctx, activecampaign.HTMLMessageAddRequest{
		Subject:        plan.Subject,
		HTML:           plan.HTML,
		FromEmail:      plan.Sender.Email,
		FromName:       plan.Sender.Name,
		ReplyTo:        plan.Sender.Email,
		MailingListIDs: lists,
	})
	if err != nil {
		log.Error(err, "Failed to create message")
		return result, fmt.Errorf("failed to create message: %w", err)
	}
	result.MessageID = messageID
	log.Info("Created message", "message", messageID)

	campaignID, err := r.API.CreateSingleCampaign(ctx, activecampaign.SingleCampaignRequest{
		Name:           plan.Name,
		SendDate:       plan.SendDate,
		MailingListIDs: lists,
		MessageID:      messageID,
	})
	if err != nil {
		log.Error(err, "Failed to create campaign")
		return result, fmt.Errorf("failed to create campaign: %w", err)
	}
	result.CampaignID = campaignID
	log.Info("Scheduled campaign", "campaignID", campaignID, "sendDate", plan.SendDate)

	return result, nil
}
