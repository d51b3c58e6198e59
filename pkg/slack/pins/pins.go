// Package pins wraps pins.add, pins.list and pins.remove.
package pins

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/morezero/slackapi/pkg/slack"
)

// ErrorCode is a pins.* error code.
type ErrorCode string

const (
	BadTimestamp        ErrorCode = "bad_timestamp"
	FileNotFound        ErrorCode = "file_not_found"
	FileCommentNotFound ErrorCode = "file_comment_not_found"
	MessageNotFound     ErrorCode = "message_not_found"
	ChannelNotFound     ErrorCode = "channel_not_found"
	NoItemSpecified     ErrorCode = "no_item_specified"
	AlreadyPinned       ErrorCode = "already_pinned"
	NotPinned           ErrorCode = "not_pinned"
	PermissionDenied    ErrorCode = "permission_denied"
	FileNotShared       ErrorCode = "file_not_shared"
	NotInChannel        ErrorCode = "not_in_channel"
	IsArchived          ErrorCode = "is_archived"
	TooManyPins         ErrorCode = "too_many_pins"
)

// Error is the error type returned by this package's calls.
type Error = slack.Error[ErrorCode]

var errorTable = slack.NewErrorTable(
	BadTimestamp, FileNotFound, FileCommentNotFound, MessageNotFound,
	ChannelNotFound, NoItemSpecified, AlreadyPinned, NotPinned,
	PermissionDenied, FileNotShared, NotInChannel, IsArchived, TooManyPins,
)

var (
	methodAdd    = slack.Method{Name: "pins.add"}
	methodList   = slack.Method{Name: "pins.list"}
	methodRemove = slack.Method{Name: "pins.remove"}
)

// AddRequest pins one item: a message (Timestamp), a file (File) or a file
// comment (FileComment).
type AddRequest struct {
	Channel     slack.ChannelID  `param:"channel"`
	File        *slack.FileID    `param:"file"`
	FileComment *string          `param:"file_comment"`
	Timestamp   *slack.Timestamp `param:"timestamp"`
}

// Add calls pins.add.
func Add(ctx context.Context, c *slack.Client, req *AddRequest) (*slack.Ack, error) {
	return slack.Call[slack.Ack](ctx, c, methodAdd, req, errorTable)
}

// RemoveRequest unpins one item, identified the same way as in AddRequest.
type RemoveRequest struct {
	Channel     slack.ChannelID  `param:"channel"`
	File        *slack.FileID    `param:"file"`
	FileComment *string          `param:"file_comment"`
	Timestamp   *slack.Timestamp `param:"timestamp"`
}

// Remove calls pins.remove.
func Remove(ctx context.Context, c *slack.Client, req *RemoveRequest) (*slack.Ack, error) {
	return slack.Call[slack.Ack](ctx, c, methodRemove, req, errorTable)
}

type ListRequest struct {
	Channel slack.ChannelID `param:"channel"`
}

type ListResponse struct {
	OK    bool   `json:"ok"`
	Items []Item `json:"items,omitempty"`
}

// List calls pins.list.
func List(ctx context.Context, c *slack.Client, req *ListRequest) (*ListResponse, error) {
	return slack.Call[ListResponse](ctx, c, methodList, req, errorTable)
}

// ItemType is the "type" tag of a pinned item.
type ItemType string

const (
	ItemMessage     ItemType = "message"
	ItemFile        ItemType = "file"
	ItemFileComment ItemType = "file_comment"
)

// Item is one pinned item. Exactly one of Message, File and FileComment is
// set, according to Type.
type Item struct {
	Type        ItemType
	Message     *MessageItem
	File        *FileItem
	FileComment *FileCommentItem
}

type MessageItem struct {
	Channel   slack.ChannelID  `json:"channel"`
	Created   *slack.Timestamp `json:"created,omitempty"`
	CreatedBy *slack.UserID    `json:"created_by,omitempty"`
	Message   slack.Message    `json:"message"`
}

type FileItem struct {
	Created   *slack.Timestamp `json:"created,omitempty"`
	CreatedBy *slack.UserID    `json:"created_by,omitempty"`
	File      slack.File       `json:"file"`
}

type FileCommentItem struct {
	Comment   slack.FileComment `json:"comment"`
	Created   *slack.Timestamp  `json:"created,omitempty"`
	CreatedBy *slack.UserID     `json:"created_by,omitempty"`
	File      slack.File        `json:"file"`
}

// UnmarshalJSON dispatches on "type" and decodes the matching variant
// strictly.
func (i *Item) UnmarshalJSON(data []byte) error {
	var tag struct {
		Type *ItemType `json:"type"`
	}
	if err := json.Unmarshal(data, &tag); err != nil {
		return err
	}
	if tag.Type == nil {
		return fmt.Errorf("pins: item has no \"type\"")
	}

	*i = Item{Type: *tag.Type}
	switch *tag.Type {
	case ItemMessage:
		var v struct {
			Type ItemType `json:"type"`
			MessageItem
		}
		if err := slack.DecodeStrict(data, &v); err != nil {
			return fmt.Errorf("pins: message item: %w", err)
		}
		i.Message = &v.MessageItem
	case ItemFile:
		var v struct {
			Type ItemType `json:"type"`
			FileItem
		}
		if err := slack.DecodeStrict(data, &v); err != nil {
			return fmt.Errorf("pins: file item: %w", err)
		}
		i.File = &v.FileItem
	case ItemFileComment:
		var v struct {
			Type ItemType `json:"type"`
			FileCommentItem
		}
		if err := slack.DecodeStrict(data, &v); err != nil {
			return fmt.Errorf("pins: file comment item: %w", err)
		}
		i.FileComment = &v.FileCommentItem
	default:
		return fmt.Errorf("pins: unknown item type %q", *tag.Type)
	}
	return nil
}

// MarshalJSON writes the item back in its tagged form.
func (i Item) MarshalJSON() ([]byte, error) {
	switch i.Type {
	case ItemMessage:
		return json.Marshal(struct {
			Type ItemType `json:"type"`
			*MessageItem
		}{i.Type, i.Message})
	case ItemFile:
		return json.Marshal(struct {
			Type ItemType `json:"type"`
			*FileItem
		}{i.Type, i.File})
	case ItemFileComment:
		return json.Marshal(struct {
			Type ItemType `json:"type"`
			*FileCommentItem
		}{i.Type, i.FileComment})
	}
	return nil, fmt.Errorf("pins: unknown item type %q", i.Type)
}
