package activecampaign

import (
	"fmt"
	"net/url"
	"strconv"
	"time"

	"k8s.io/apimachinery/pkg/util/sets"
	"k8s.io/utils/ptr"
)

// API actions understood by admin/api.php.
const (
	ActionListAdd        = "list_add"
	ActionContactAdd     = "contact_add"
	ActionMessageAdd     = "message_add"
	ActionCampaignCreate = "campaign_create"
)

const (
	// DefaultPriority is used for messages that do not set one. 1 is high, 5 is low.
	DefaultPriority = 3

	DefaultCharset  = "utf-8"
	DefaultEncoding = "quoted-printable"

	DefaultCampaignStatus = 1
	DefaultCampaignPublic = 1
	DefaultTrackLinks     = "all"

	// SendDateLayout is the layout ActiveCampaign expects for campaign send dates.
	SendDateLayout = "2006-01-02 15:04:05"

	campaignTypeSingle = "single"
	fullWeight         = 100
)

// Body is the flat form body of a request.
type Body map[string]string

// Encode renders the body as application/x-www-form-urlencoded, sorted by key.
func (b Body) Encode() string {
	values := make(url.Values, len(b))
	for k, v := range b {
		values.Set(k, v)
	}
	return values.Encode()
}

func (b Body) setNonEmpty(key, value string) {
	if value != "" {
		b[key] = value
	}
}

// addMailingLists subscribes the body to each list as p[id]=id.
func (b Body) addMailingLists(ids []int) {
	for _, id := range sets.List(sets.New(ids...)) {
		b[fmt.Sprintf("p[%d]", id)] = strconv.Itoa(id)
	}
}

// Request is a single admin/api.php action together with its POST body.
type Request interface {
	Action() string
	Body() Body
}

// ListAddRequest creates a mailing list.
type ListAddRequest struct {
	Name          string
	SenderAddress string
	SenderCountry string

	// Optional sender details, sent only when set.
	SenderName string
	SenderCity string
	SenderZip  string
}

func (r ListAddRequest) Action() string { return ActionListAdd }

func (r ListAddRequest) Body() Body {
	body := Body{
		"name":           r.Name,
		"sender_addr1":   r.SenderAddress,
		"sender_country": r.SenderCountry,
	}
	body.setNonEmpty("sender_name", r.SenderName)
	body.setNonEmpty("sender_city", r.SenderCity)
	body.setNonEmpty("sender_zip", r.SenderZip)
	return body
}

// ContactAddRequest creates a contact subscribed to zero or more mailing lists.
type ContactAddRequest struct {
	Email          string
	FirstName      string
	LastName       string
	MailingListIDs []int
}

func (r ContactAddRequest) Action() string { return ActionContactAdd }

func (r ContactAddRequest) Body() Body {
	body := Body{
		"email": r.Email,
	}
	body.setNonEmpty("first_name", r.FirstName)
	body.setNonEmpty("last_name", r.LastName)
	body.addMailingLists(r.MailingListIDs)
	return body
}

// HTMLMessageAddRequest creates a message built from HTML content.
// Nil optional fields fall back to DefaultPriority, DefaultCharset and DefaultEncoding.
type HTMLMessageAddRequest struct {
	Subject        string
	HTML           string
	FromEmail      string
	FromName       string
	ReplyTo        string
	Priority       *int
	Charset        *string
	Encoding       *string
	MailingListIDs []int
}

func (r HTMLMessageAddRequest) Action() string { return ActionMessageAdd }

func (r HTMLMessageAddRequest) Body() Body {
	body := Body{
		"subject":         r.Subject,
		"fromemail":       r.FromEmail,
		"fromname":        r.FromName,
		"reply2":          r.ReplyTo,
		"html":            r.HTML,
		"priority":        strconv.Itoa(ptr.Deref(r.Priority, DefaultPriority)),
		"format":          "html",
		"htmlconstructor": "editor",
		"charset":         ptr.Deref(r.Charset, DefaultCharset),
		"encoding":        ptr.Deref(r.Encoding, DefaultEncoding),
	}
	body.addMailingLists(r.MailingListIDs)
	return body
}

// SingleCampaignRequest creates a "single" campaign that delivers one message
// to 100% of its mailing lists. The campaign is scheduled as soon as it is created.
// Nil Status, Public and TrackLinks fall back to 1, 1 and "all".
type SingleCampaignRequest struct {
	Name           string
	SendDate       string
	MailingListIDs []int
	MessageID      int
	Status         *int
	Public         *int
	TrackLinks     *string
}

func (r SingleCampaignRequest) Action() string { return ActionCampaignCreate }

func (r SingleCampaignRequest) Body() Body {
	body := Body{
		"type":       campaignTypeSingle,
		"name":       r.Name,
		"sdate":      r.SendDate,
		"status":     strconv.Itoa(ptr.Deref(r.Status, DefaultCampaignStatus)),
		"public":     strconv.Itoa(ptr.Deref(r.Public, DefaultCampaignPublic)),
		"tracklinks": ptr.Deref(r.TrackLinks, DefaultTrackLinks),
	}
	body.addMailingLists(r.MailingListIDs)
	body[fmt.Sprintf("m[%d]", r.MessageID)] = strconv.Itoa(fullWeight)
	return body
}

// FormatSendDate renders t in the layout expected by SingleCampaignRequest.SendDate.
func FormatSendDate(t time.Time) string {
	return t.Format(SendDateLayout)
}
