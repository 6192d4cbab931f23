package campaign

import (
	"context"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"go.miloapis.com/email-provider-activecampaign/internal/contacts"
	"go.miloapis.com/email-provider-activecampaign/pkg/activecampaign"
)

// fakeAPI records every request and hands out increasing ids.
type fakeAPI struct {
	nextID   int
	calls    []string
	requests []activecampaign.Request
	failOn   string
	failAt   int
}

func (f *fakeAPI) record(req activecampaign.Request) (int, error) {
	f.calls = append(f.calls, req.Action())
	f.requests = append(f.requests, req)
	if req.Action() == f.failOn {
		f.failAt--
		if f.failAt <= 0 {
			return 0, &activecampaign.RemoteRejection{Message: "error"}
		}
	}
	f.nextID++
	return f.nextID, nil
}

func (f *fakeAPI) CreateMailingList(_ context.Context, req activecampaign.ListAddRequest) (int, error) {
	return f.record(req)
}

func (f *fakeAPI) CreateContact(_ context.Context, req activecampaign.ContactAddRequest) (int, error) {
	return f.record(req)
}

func (f *fakeAPI) CreateHTMLMessage(_ context.Context, req activecampaign.HTMLMessageAddRequest) (int, error) {
	return f.record(req)
}

func (f *fakeAPI) CreateSingleCampaign(_ context.Context, req activecampaign.SingleCampaignRequest) (int, error) {
	return f.record(req)
}

var _ = Describe("Runner", func() {
	var (
		api    *fakeAPI
		runner *Runner
		plan   Plan
	)

	BeforeEach(func() {
		api = &fakeAPI{}
		runner = &Runner{API: api}
		plan = Plan{
			Name:     "Fall Sale",
			SendDate: "2018-09-09 13:00:00",
			Subject:  "Everything must go",
			HTML:     "<html><body>sale</body></html>",
			Sender: Sender{
				Name:    "test person",
				Email:   "sender@example.com",
				Address: "123 S Fake St",
				City:    "Chicago",
				Zip:     "60606",
				Country: "us",
			},
			Contacts: []contacts.Contact{
				{Email: "a@example.com", FirstName: "A"},
				{Email: "b@example.com", LastName: "B"},
			},
		}
	})

	It("creates list, contacts, message and campaign in order", func() {
		result, err := runner.Run(context.Background(), plan)
		Expect(err).NotTo(HaveOccurred())

		Expect(api.calls).To(Equal([]string{
			activecampaign.ActionListAdd,
			activecampaign.ActionContactAdd,
			activecampaign.ActionContactAdd,
			activecampaign.ActionMessageAdd,
			activecampaign.ActionCampaignCreate,
		}))
		Expect(result).To(Equal(Result{
			MailingListID: 1,
			ContactIDs:    []int{2, 3},
			MessageID:     4,
			CampaignID:    5,
		}))
	})

	It("names the list after the campaign and passes sender details", func() {
		_, err := runner.Run(context.Background(), plan)
		Expect(err).NotTo(HaveOccurred())

		Expect(api.requests[0].Body()).To(Equal(activecampaign.Body{
			"name":           "Fall Sale - Mailing List",
			"sender_name":    "test person",
			"sender_addr1":   "123 S Fake St",
			"sender_city":    "Chicago",
			"sender_zip":     "60606",
			"sender_country": "us",
		}))
	})

	It("subscribes contacts and targets the message and campaign at the new list", func() {
		_, err := runner.Run(context.Background(), plan)
		Expect(err).NotTo(HaveOccurred())

		Expect(api.requests[1].Body()).To(HaveKeyWithValue("p[1]", "1"))
		Expect(api.requests[1].Body()).To(HaveKeyWithValue("first_name", "A"))
		Expect(api.requests[1].Body()).NotTo(HaveKey("last_name"))
		Expect(api.requests[2].Body()).To(HaveKeyWithValue("last_name", "B"))

		message := api.requests[3].Body()
		Expect(message).To(HaveKeyWithValue("fromemail", "sender@example.com"))
		Expect(message).To(HaveKeyWithValue("reply2", "sender@example.com"))
		Expect(message).To(HaveKeyWithValue("fromname", "test person"))
		Expect(message).To(HaveKeyWithValue("p[1]", "1"))

		campaign := api.requests[4].Body()
		Expect(campaign).To(HaveKeyWithValue("m[4]", "100"))
		Expect(campaign).To(HaveKeyWithValue("sdate", "2018-09-09 13:00:00"))
		Expect(campaign).To(HaveKeyWithValue("p[1]", "1"))
	})

	It("stops at the first contact failure and keeps earlier contacts", func() {
		api.failOn = activecampaign.ActionContactAdd
		api.failAt = 2

		result, err := runner.Run(context.Background(), plan)
		Expect(err).To(HaveOccurred())
		Expect(activecampaign.IsRemoteRejection(err)).To(BeTrue())
		Expect(err.Error()).To(ContainSubstring("b@example.com"))

		Expect(api.calls).To(HaveLen(3))
		Expect(result.MailingListID).To(Equal(1))
		Expect(result.ContactIDs).To(Equal([]int{2}))
		Expect(result.MessageID).To(BeZero())
		Expect(result.CampaignID).To(BeZero())
	})

	It("does not create anything after the mailing list is rejected", func() {
		api.failOn = activecampaign.ActionListAdd

		_, err := runner.Run(context.Background(), plan)
		Expect(err).To(MatchError(ContainSubstring("failed to create mailing list")))
		Expect(api.calls).To(Equal([]string{activecampaign.ActionListAdd}))
	})

	It("creates no campaign when the message is rejected", func() {
		api.failOn = activecampaign.ActionMessageAdd

		result, err := runner.Run(context.Background(), plan)
		Expect(err).To(HaveOccurred())
		Expect(api.calls).NotTo(ContainElement(activecampaign.ActionCampaignCreate))
		Expect(result.ContactIDs).To(HaveLen(2))
	})

	It("schedules a campaign for an empty contact list", func() {
		plan.Contacts = nil

		result, err := runner.Run(context.Background(), plan)
		Expect(err).NotTo(HaveOccurred())
		Expect(result.ContactIDs).To(BeEmpty())
		Expect(result.CampaignID).To(Equal(3))
	})
})
