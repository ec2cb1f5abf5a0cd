package tools

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/PhilflowIO/dav-mcp-sub001/internal/compose"
	"github.com/PhilflowIO/dav-mcp-sub001/internal/davclient"
	"github.com/PhilflowIO/dav-mcp-sub001/internal/report"
)

const vcardContentType = "text/vcard; charset=utf-8"

func (s *Service) registerContactTools(srv *server.MCPServer) {
	abArg := func() mcp.ToolOption {
		return mcp.WithString("addressbook", mcp.Required(),
			mcp.Description("Address book name or URL, as shown by list_addressbooks."))
	}

	srv.AddTool(mcp.NewTool("list_contacts",
		mcp.WithDescription("List the contacts of an address book as a readable report."),
		abArg(),
	), s.wrap(func(ctx context.Context, req mcp.CallToolRequest) (string, error) {
		name, err := req.RequireString("addressbook")
		if err != nil {
			return "", err
		}
		return s.ListContacts(ctx, name)
	}))

	srv.AddTool(mcp.NewTool("get_contact",
		mcp.WithDescription("Show one contact by UID."),
		abArg(),
		mcp.WithString("uid", mcp.Required(), mcp.Description("The contact's UID property.")),
	), s.wrap(func(ctx context.Context, req mcp.CallToolRequest) (string, error) {
		args, err := requireStrings(req, "addressbook", "uid")
		if err != nil {
			return "", err
		}
		return s.GetContact(ctx, args[0], args[1])
	}))

	srv.AddTool(mcp.NewTool("create_contact",
		mcp.WithDescription("Create a new contact."),
		abArg(),
		mcp.WithString("given_name", mcp.Description("Given name.")),
		mcp.WithString("family_name", mcp.Description("Family name.")),
		mcp.WithString("formatted_name", mcp.Description("Display name; assembled from name parts when omitted.")),
		mcp.WithString("organization", mcp.Description("Organization.")),
		mcp.WithString("email", mcp.Description("Email address.")),
		mcp.WithString("phone", mcp.Description("Phone number.")),
		mcp.WithString("note", mcp.Description("Free-text note.")),
	), s.wrap(func(ctx context.Context, req mcp.CallToolRequest) (string, error) {
		name, err := req.RequireString("addressbook")
		if err != nil {
			return "", err
		}
		return s.CreateContact(ctx, name, compose.ContactInput{
			GivenName:     req.GetString("given_name", ""),
			FamilyName:    req.GetString("family_name", ""),
			FormattedName: req.GetString("formatted_name", ""),
			Organization:  req.GetString("organization", ""),
			Email:         req.GetString("email", ""),
			Phone:         req.GetString("phone", ""),
			Note:          req.GetString("note", ""),
		})
	}))

	srv.AddTool(mcp.NewTool("update_contact_field",
		mcp.WithDescription("Update one free-text field of a contact (FN, TITLE, NOTE, EMAIL, TEL)."),
		abArg(),
		mcp.WithString("uid", mcp.Required(), mcp.Description("The contact's UID property.")),
		mcp.WithString("field", mcp.Required(), mcp.Description("Property to set, e.g. NOTE.")),
		mcp.WithString("value", mcp.Required(), mcp.Description("Plain text value; escaping is applied automatically.")),
	), s.wrap(func(ctx context.Context, req mcp.CallToolRequest) (string, error) {
		args, err := requireStrings(req, "addressbook", "uid", "field", "value")
		if err != nil {
			return "", err
		}
		return s.UpdateContactField(ctx, args[0], args[1], args[2], args[3])
	}))

	srv.AddTool(mcp.NewTool("delete_contact",
		mcp.WithDescription("Delete one contact by UID."),
		abArg(),
		mcp.WithString("uid", mcp.Required(), mcp.Description("The contact's UID property.")),
	), s.wrap(func(ctx context.Context, req mcp.CallToolRequest) (string, error) {
		args, err := requireStrings(req, "addressbook", "uid")
		if err != nil {
			return "", err
		}
		return s.DeleteContact(ctx, args[0], args[1])
	}))
}

// ListContacts renders the vCard report for one address book.
func (s *Service) ListContacts(ctx context.Context, addressbook string) (string, error) {
	col, objs, err := s.addressObjects(ctx, addressbook)
	if err != nil {
		return "", err
	}
	return report.Contacts(col.Label(), objs), nil
}

// GetContact renders a single contact located by UID.
func (s *Service) GetContact(ctx context.Context, addressbook, uid string) (string, error) {
	col, objs, err := s.addressObjects(ctx, addressbook)
	if err != nil {
		return "", err
	}
	obj, ok := findObjectByUID(objs, "VCARD", uid)
	if !ok {
		return "", fmt.Errorf("no contact with UID %q in %s", uid, col.Label())
	}
	return report.Contacts(col.Label(), []davclient.Object{obj}), nil
}

// CreateContact composes a new vCard and uploads it.
func (s *Service) CreateContact(ctx context.Context, addressbook string, in compose.ContactInput) (string, error) {
	col, err := s.findCollection(ctx, s.abRoot, addressbook, false)
	if err != nil {
		return "", err
	}
	uid, vcf, err := compose.NewContactDocument(in)
	if err != nil {
		return "", err
	}
	objURL := col.URL + uid + ".vcf"
	if _, err := s.client.PutObject(ctx, objURL, vcf, "", vcardContentType); err != nil {
		return "", err
	}
	s.listings.Invalidate(col.URL + "#VCARD")
	s.log.Info().Str("uid", uid).Str("addressbook", col.Label()).Msg("contact created")
	return fmt.Sprintf("Created contact with UID %s in %q.", uid, col.Label()), nil
}

// UpdateContactField splices one escaped field value into the stored vCard.
func (s *Service) UpdateContactField(ctx context.Context, addressbook, uid, field, value string) (string, error) {
	col, objs, err := s.addressObjects(ctx, addressbook)
	if err != nil {
		return "", err
	}
	obj, ok := findObjectByUID(objs, "VCARD", uid)
	if !ok {
		return "", fmt.Errorf("no contact with UID %q in %s", uid, col.Label())
	}
	updated, err := compose.SetRawProperty(obj.Data, field, value)
	if err != nil {
		return "", err
	}
	if _, err := s.client.PutObject(ctx, obj.URL, updated, obj.ETag, vcardContentType); err != nil {
		return "", err
	}
	s.listings.Invalidate(col.URL + "#VCARD")
	return fmt.Sprintf("Updated %s of contact %s.", field, uid), nil
}

// DeleteContact removes a contact by UID.
func (s *Service) DeleteContact(ctx context.Context, addressbook, uid string) (string, error) {
	col, objs, err := s.addressObjects(ctx, addressbook)
	if err != nil {
		return "", err
	}
	obj, ok := findObjectByUID(objs, "VCARD", uid)
	if !ok {
		return "", fmt.Errorf("no contact with UID %q in %s", uid, col.Label())
	}
	if err := s.client.DeleteObject(ctx, obj.URL, obj.ETag); err != nil {
		return "", err
	}
	s.listings.Invalidate(col.URL + "#VCARD")
	return fmt.Sprintf("Deleted contact %s.", uid), nil
}

func (s *Service) addressObjects(ctx context.Context, addressbook string) (davclient.Collection, []davclient.Object, error) {
	col, err := s.findCollection(ctx, s.abRoot, addressbook, false)
	if err != nil {
		return davclient.Collection{}, nil, err
	}
	objs, err := s.fetchObjects(ctx, col.URL+"#VCARD", func() ([]davclient.Object, error) {
		return s.client.AddressObjects(ctx, col.URL)
	})
	if err != nil {
		return davclient.Collection{}, nil, err
	}
	return col, objs, nil
}
