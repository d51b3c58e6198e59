package slack

import "encoding/json"

// Identifier types. Slack sends them as opaque strings.
type (
	UserID       string
	ChannelID    string
	TeamID       string
	BotID        string
	AppID        string
	FileID       string
	UsergroupID  string
	EnterpriseID string
)

// Cursor is an opaque pagination token from ResponseMetadata.NextCursor.
type Cursor string

// Ack is the response of methods that return nothing beyond "ok".
type Ack struct {
	OK bool `json:"ok"`
}

// The shared records below are embedded in many responses and Slack adds
// fields to them freely, so each decodes leniently through its own
// UnmarshalJSON even when the enclosing response is decoded strictly.

// Message is a channel message. Raw keeps the object as received.
type Message struct {
	Type        string          `json:"type"`
	Subtype     string          `json:"subtype,omitempty"`
	Channel     ChannelID       `json:"channel,omitempty"`
	User        UserID          `json:"user,omitempty"`
	BotID       BotID           `json:"bot_id,omitempty"`
	Username    string          `json:"username,omitempty"`
	Text        string          `json:"text"`
	Ts          *Timestamp      `json:"ts,omitempty"`
	ThreadTs    *Timestamp      `json:"thread_ts,omitempty"`
	ReplyCount  int             `json:"reply_count,omitempty"`
	IsStarred   bool            `json:"is_starred,omitempty"`
	PinnedTo    []ChannelID     `json:"pinned_to,omitempty"`
	Reactions   []Reaction      `json:"reactions,omitempty"`
	Files       []File          `json:"files,omitempty"`
	Attachments []Attachment    `json:"attachments,omitempty"`
	Edited      *Edited         `json:"edited,omitempty"`
	Raw         json.RawMessage `json:"-"`
}

func (m *Message) UnmarshalJSON(data []byte) error {
	type plain Message
	if err := json.Unmarshal(data, (*plain)(m)); err != nil {
		return err
	}
	m.Raw = append(json.RawMessage(nil), data...)
	return nil
}

// Edited records the last edit of a message.
type Edited struct {
	User UserID     `json:"user"`
	Ts   *Timestamp `json:"ts"`
}

// Reaction is an emoji reaction on a message.
type Reaction struct {
	Name  string   `json:"name"`
	Count int      `json:"count"`
	Users []UserID `json:"users"`
}

// Attachment is a legacy message attachment.
type Attachment struct {
	ID       int    `json:"id,omitempty"`
	Fallback string `json:"fallback,omitempty"`
	Color    string `json:"color,omitempty"`
	Pretext  string `json:"pretext,omitempty"`
	Title    string `json:"title,omitempty"`
	Text     string `json:"text,omitempty"`
	Footer   string `json:"footer,omitempty"`
}

func (a *Attachment) UnmarshalJSON(data []byte) error {
	type plain Attachment
	return json.Unmarshal(data, (*plain)(a))
}

// File is an uploaded file.
type File struct {
	ID                 FileID      `json:"id"`
	Created            int64       `json:"created"`
	Timestamp          int64       `json:"timestamp"`
	Name               string      `json:"name"`
	Title              string      `json:"title"`
	Mimetype           string      `json:"mimetype"`
	Filetype           string      `json:"filetype"`
	PrettyType         string      `json:"pretty_type"`
	User               UserID      `json:"user"`
	Mode               string      `json:"mode"`
	Editable           bool        `json:"editable"`
	IsExternal         bool        `json:"is_external"`
	ExternalType       string      `json:"external_type"`
	Size               int64       `json:"size"`
	URLPrivate         string      `json:"url_private"`
	URLPrivateDownload string      `json:"url_private_download"`
	Permalink          string      `json:"permalink"`
	PermalinkPublic    string      `json:"permalink_public"`
	IsPublic           bool        `json:"is_public"`
	PublicURLShared    bool        `json:"public_url_shared"`
	Channels           []ChannelID `json:"channels"`
	Groups             []ChannelID `json:"groups"`
	Ims                []ChannelID `json:"ims"`
	CommentsCount      int         `json:"comments_count"`
}

func (f *File) UnmarshalJSON(data []byte) error {
	type plain File
	return json.Unmarshal(data, (*plain)(f))
}

// FileComment is a comment on a file.
type FileComment struct {
	ID        string `json:"id"`
	Created   int64  `json:"created"`
	Timestamp int64  `json:"timestamp"`
	User      UserID `json:"user"`
	Comment   string `json:"comment"`
}

func (c *FileComment) UnmarshalJSON(data []byte) error {
	type plain FileComment
	return json.Unmarshal(data, (*plain)(c))
}

// Topic is a channel topic or purpose.
type Topic struct {
	Value   string `json:"value"`
	Creator UserID `json:"creator"`
	LastSet int64  `json:"last_set"`
}

func (t *Topic) UnmarshalJSON(data []byte) error {
	type plain Topic
	return json.Unmarshal(data, (*plain)(t))
}

// Channel is a public channel.
type Channel struct {
	ID                 ChannelID  `json:"id"`
	Name               string     `json:"name"`
	NameNormalized     string     `json:"name_normalized,omitempty"`
	Created            int64      `json:"created"`
	Creator            UserID     `json:"creator"`
	IsChannel          bool       `json:"is_channel"`
	IsGroup            bool       `json:"is_group"`
	IsIm               bool       `json:"is_im"`
	IsMpim             bool       `json:"is_mpim"`
	IsPrivate          bool       `json:"is_private"`
	IsArchived         bool       `json:"is_archived"`
	IsGeneral          bool       `json:"is_general"`
	IsMember           bool       `json:"is_member"`
	IsShared           bool       `json:"is_shared"`
	IsOrgShared        bool       `json:"is_org_shared"`
	Members            []UserID   `json:"members,omitempty"`
	Topic              *Topic     `json:"topic,omitempty"`
	Purpose            *Topic     `json:"purpose,omitempty"`
	PreviousNames      []string   `json:"previous_names,omitempty"`
	NumMembers         *int       `json:"num_members,omitempty"`
	LastRead           *Timestamp `json:"last_read,omitempty"`
	Latest             *Message   `json:"latest,omitempty"`
	UnreadCount        *int       `json:"unread_count,omitempty"`
	UnreadCountDisplay *int       `json:"unread_count_display,omitempty"`
	Locale             string     `json:"locale,omitempty"`
}

func (c *Channel) UnmarshalJSON(data []byte) error {
	type plain Channel
	return json.Unmarshal(data, (*plain)(c))
}

// Group is a private channel as reported by rtm.start.
type Group struct {
	ID         ChannelID  `json:"id"`
	Name       string     `json:"name"`
	Created    int64      `json:"created"`
	Creator    UserID     `json:"creator"`
	IsGroup    bool       `json:"is_group"`
	IsArchived bool       `json:"is_archived"`
	IsMpim     bool       `json:"is_mpim"`
	Members    []UserID   `json:"members,omitempty"`
	Topic      *Topic     `json:"topic,omitempty"`
	Purpose    *Topic     `json:"purpose,omitempty"`
	LastRead   *Timestamp `json:"last_read,omitempty"`
	Latest     *Message   `json:"latest,omitempty"`
}

func (g *Group) UnmarshalJSON(data []byte) error {
	type plain Group
	return json.Unmarshal(data, (*plain)(g))
}

// Mpim is a multi-party direct message.
type Mpim struct {
	ID         ChannelID  `json:"id"`
	Name       string     `json:"name"`
	Created    int64      `json:"created"`
	Creator    UserID     `json:"creator"`
	IsGroup    bool       `json:"is_group"`
	IsMpim     bool       `json:"is_mpim"`
	IsArchived bool       `json:"is_archived"`
	Members    []UserID   `json:"members,omitempty"`
	LastRead   *Timestamp `json:"last_read,omitempty"`
	Latest     *Message   `json:"latest,omitempty"`
}

func (m *Mpim) UnmarshalJSON(data []byte) error {
	type plain Mpim
	return json.Unmarshal(data, (*plain)(m))
}

// Im is a direct message channel.
type Im struct {
	ID            ChannelID `json:"id"`
	User          UserID    `json:"user"`
	Created       int64     `json:"created"`
	IsIm          bool      `json:"is_im"`
	IsOrgShared   bool      `json:"is_org_shared"`
	IsUserDeleted bool      `json:"is_user_deleted"`
	Priority      float64   `json:"priority,omitempty"`
}

func (i *Im) UnmarshalJSON(data []byte) error {
	type plain Im
	return json.Unmarshal(data, (*plain)(i))
}

// ProfileField is one custom profile field value.
type ProfileField struct {
	Value string `json:"value"`
	Alt   string `json:"alt"`
	Label string `json:"label,omitempty"`
}

// Profile is a user's profile. Fields arrives as [] when a user has no
// custom fields.
type Profile struct {
	FirstName             string                                 `json:"first_name,omitempty"`
	LastName              string                                 `json:"last_name,omitempty"`
	RealName              string                                 `json:"real_name,omitempty"`
	RealNameNormalized    string                                 `json:"real_name_normalized,omitempty"`
	DisplayName           string                                 `json:"display_name,omitempty"`
	DisplayNameNormalized string                                 `json:"display_name_normalized,omitempty"`
	Email                 string                                 `json:"email,omitempty"`
	Phone                 string                                 `json:"phone,omitempty"`
	Skype                 string                                 `json:"skype,omitempty"`
	Title                 string                                 `json:"title,omitempty"`
	StatusText            string                                 `json:"status_text,omitempty"`
	StatusEmoji           string                                 `json:"status_emoji,omitempty"`
	AvatarHash            string                                 `json:"avatar_hash,omitempty"`
	BotID                 BotID                                  `json:"bot_id,omitempty"`
	Image24               string                                 `json:"image_24,omitempty"`
	Image32               string                                 `json:"image_32,omitempty"`
	Image48               string                                 `json:"image_48,omitempty"`
	Image72               string                                 `json:"image_72,omitempty"`
	Image192              string                                 `json:"image_192,omitempty"`
	Image512              string                                 `json:"image_512,omitempty"`
	Team                  TeamID                                 `json:"team,omitempty"`
	Fields                ObjectOrEmpty[map[string]ProfileField] `json:"fields"`
}

func (p *Profile) UnmarshalJSON(data []byte) error {
	type plain Profile
	return json.Unmarshal(data, (*plain)(p))
}

// User is a workspace member.
type User struct {
	ID                UserID   `json:"id"`
	TeamID            TeamID   `json:"team_id,omitempty"`
	Name              string   `json:"name"`
	Deleted           bool     `json:"deleted"`
	Color             string   `json:"color,omitempty"`
	RealName          string   `json:"real_name,omitempty"`
	TZ                string   `json:"tz,omitempty"`
	TZLabel           string   `json:"tz_label,omitempty"`
	TZOffset          int      `json:"tz_offset,omitempty"`
	Profile           *Profile `json:"profile,omitempty"`
	IsAdmin           bool     `json:"is_admin"`
	IsOwner           bool     `json:"is_owner"`
	IsPrimaryOwner    bool     `json:"is_primary_owner"`
	IsRestricted      bool     `json:"is_restricted"`
	IsUltraRestricted bool     `json:"is_ultra_restricted"`
	IsBot             bool     `json:"is_bot"`
	IsAppUser         bool     `json:"is_app_user"`
	Has2FA            bool     `json:"has_2fa,omitempty"`
	Updated           int64    `json:"updated,omitempty"`
	Presence          string   `json:"presence,omitempty"`
	Locale            string   `json:"locale,omitempty"`
}

func (u *User) UnmarshalJSON(data []byte) error {
	type plain User
	return json.Unmarshal(data, (*plain)(u))
}

// TeamIcon holds a team's icon URLs. Slack sends [] for teams without an icon.
type TeamIcon struct {
	Image34      string `json:"image_34,omitempty"`
	Image44      string `json:"image_44,omitempty"`
	Image68      string `json:"image_68,omitempty"`
	Image88      string `json:"image_88,omitempty"`
	Image102     string `json:"image_102,omitempty"`
	Image132     string `json:"image_132,omitempty"`
	Image230     string `json:"image_230,omitempty"`
	ImageDefault bool   `json:"image_default,omitempty"`
}

// Team is a workspace.
type Team struct {
	ID             TeamID                  `json:"id"`
	Name           string                  `json:"name"`
	Domain         string                  `json:"domain"`
	EmailDomain    string                  `json:"email_domain,omitempty"`
	EnterpriseID   EnterpriseID            `json:"enterprise_id,omitempty"`
	EnterpriseName string                  `json:"enterprise_name,omitempty"`
	Icon           ObjectOrEmpty[TeamIcon] `json:"icon"`
}

func (t *Team) UnmarshalJSON(data []byte) error {
	type plain Team
	return json.Unmarshal(data, (*plain)(t))
}

// Bot is a bot integration.
type Bot struct {
	ID      BotID             `json:"id"`
	Name    string            `json:"name"`
	Deleted bool              `json:"deleted"`
	AppID   AppID             `json:"app_id,omitempty"`
	Updated int64             `json:"updated,omitempty"`
	Icons   map[string]string `json:"icons,omitempty"`
}

func (b *Bot) UnmarshalJSON(data []byte) error {
	type plain Bot
	return json.Unmarshal(data, (*plain)(b))
}

// Usergroup is a user group (subteam).
type Usergroup struct {
	ID          UsergroupID `json:"id"`
	TeamID      TeamID      `json:"team_id"`
	IsUsergroup bool        `json:"is_usergroup"`
	Name        string      `json:"name"`
	Description string      `json:"description"`
	Handle      string      `json:"handle"`
	IsExternal  bool        `json:"is_external"`
	DateCreate  int64       `json:"date_create"`
	DateUpdate  int64       `json:"date_update"`
	DateDelete  int64       `json:"date_delete"`
	AutoType    *string     `json:"auto_type"`
	CreatedBy   UserID      `json:"created_by"`
	UpdatedBy   UserID      `json:"updated_by"`
	DeletedBy   *UserID     `json:"deleted_by"`
	Users       []UserID    `json:"users,omitempty"`
	UserCount   *int        `json:"user_count,omitempty"`
}

func (u *Usergroup) UnmarshalJSON(data []byte) error {
	type plain Usergroup
	return json.Unmarshal(data, (*plain)(u))
}

// Paging describes page-numbered results.
type Paging struct {
	Count int `json:"count"`
	Total int `json:"total"`
	Page  int `json:"page"`
	Pages int `json:"pages"`
}

func (p *Paging) UnmarshalJSON(data []byte) error {
	type plain Paging
	return json.Unmarshal(data, (*plain)(p))
}

// ResponseMetadata carries the cursor for cursor-paginated methods.
type ResponseMetadata struct {
	NextCursor Cursor   `json:"next_cursor"`
	Warnings   []string `json:"warnings,omitempty"`
	Messages   []string `json:"messages,omitempty"`
}

func (r *ResponseMetadata) UnmarshalJSON(data []byte) error {
	type plain ResponseMetadata
	return json.Unmarshal(data, (*plain)(r))
}
