// Package partxml reads and writes parts as XML element trees.
package partxml

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"quartermaster-backend/internal/domain"
	"quartermaster-backend/internal/infrastructure/metrics"

	"github.com/beevik/etree"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Values of the part element's type attribute.
const (
	TypeMissingCubicle = "MissingCubicle"
	TypeCubicle        = "Cubicle"
	TypeTransportBay   = "TransportBay"
)

var (
	ErrNoRoot       = errors.New("document has no root element")
	ErrUnknownType  = errors.New("unknown part type")
	ErrInvalidField = errors.New("invalid part field")
)

// legacyBayTypes rewrites kind names written by older saves, in order.
var legacyBayTypes = []struct{ old, current string }{
	{"MECH", "MEK"},
	{"PROTOMECH", "PROTOMEK"},
}

func canonicalBayType(raw string) string {
	raw = strings.TrimSpace(raw)
	for _, r := range legacyBayTypes {
		if strings.EqualFold(raw, r.old) {
			return r.current
		}
	}
	return raw
}

// Codec converts parts to and from XML. Unreadable kinds are reported on Log.
type Codec struct {
	Log zerolog.Logger
}

func New(log zerolog.Logger) *Codec {
	return &Codec{Log: log.With().Str("component", "partxml").Logger()}
}

// Marshal writes parts under a <parts> root.
func (c *Codec) Marshal(parts []*domain.Part) ([]byte, error) {
	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)
	root := doc.CreateElement("parts")
	for _, p := range parts {
		if err := c.WritePart(root, p); err != nil {
			return nil, err
		}
	}
	doc.Indent(2)
	return doc.WriteToBytes()
}

// Unmarshal reads every <part> child of the document root.
func (c *Codec) Unmarshal(data []byte) ([]*domain.Part, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(data); err != nil {
		return nil, err
	}
	root := doc.Root()
	if root == nil {
		return nil, ErrNoRoot
	}
	var parts []*domain.Part
	for _, el := range root.ChildElements() {
		if !strings.EqualFold(el.Tag, "part") {
			continue
		}
		p, err := c.ReadPart(el)
		if err != nil {
			return nil, err
		}
		parts = append(parts, p)
	}
	return parts, nil
}

func partType(p *domain.Part) (string, error) {
	switch {
	case p.PartType == domain.PartTypeCubicle && p.Missing:
		return TypeMissingCubicle, nil
	case p.PartType == domain.PartTypeCubicle:
		return TypeCubicle, nil
	case p.PartType == domain.PartTypeTransportBay:
		return TypeTransportBay, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownType, p.PartType)
}

// WritePart appends p to parent as a <part> element.
func (c *Codec) WritePart(parent *etree.Element, p *domain.Part) error {
	typ, err := partType(p)
	if err != nil {
		return err
	}
	if !p.BayType.Valid() {
		return fmt.Errorf("%w: bayType %d", ErrInvalidField, int(p.BayType))
	}
	el := parent.CreateElement("part")
	el.CreateAttr("type", typ)

	el.CreateElement("id").SetText(p.PartID.String())
	if p.UnitID != nil {
		el.CreateElement("unitId").SetText(p.UnitID.String())
	}
	if p.ParentPartID != nil {
		el.CreateElement("parentPartId").SetText(p.ParentPartID.String())
	}
	el.CreateElement("name").SetText(p.Name)
	el.CreateElement("unitTonnage").SetText(strconv.Itoa(p.UnitTonnage))
	el.CreateElement("quantity").SetText(strconv.Itoa(p.Quantity))
	el.CreateElement("condition").SetText(strconv.FormatFloat(p.Condition, 'f', -1, 64))
	el.CreateElement("bayType").SetText(p.BayType.String())
	return nil
}

// ReadPart builds a part from one <part> element. Child tags are matched without
// regard to case and unknown tags are ignored. A bay type that cannot be resolved
// is logged and replaced with the default kind.
func (c *Codec) ReadPart(el *etree.Element) (*domain.Part, error) {
	p := &domain.Part{}
	switch typ := el.SelectAttrValue("type", ""); typ {
	case TypeMissingCubicle:
		p.PartType = domain.PartTypeCubicle
		p.Missing = true
	case TypeCubicle:
		p.PartType = domain.PartTypeCubicle
	case TypeTransportBay:
		p.PartType = domain.PartTypeTransportBay
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownType, typ)
	}

	sawKind := false
	for _, child := range el.ChildElements() {
		text := strings.TrimSpace(child.Text())
		var err error
		switch strings.ToLower(child.Tag) {
		case "id":
			p.PartID, err = parseUUID(child.Tag, text)
		case "unitid":
			p.UnitID, err = parseOptionalUUID(child.Tag, text)
		case "parentpartid":
			p.ParentPartID, err = parseOptionalUUID(child.Tag, text)
		case "name":
			p.Name = child.Text()
		case "unittonnage":
			p.UnitTonnage, err = parseInt(child.Tag, text)
		case "quantity":
			p.Quantity, err = parseInt(child.Tag, text)
		case "condition":
			p.Condition, err = strconv.ParseFloat(text, 64)
			if err != nil {
				err = fmt.Errorf("%w: %s %q", ErrInvalidField, child.Tag, text)
			}
		case "baytype":
			sawKind = true
			p.BayType = c.readBayType(text)
		}
		if err != nil {
			return nil, err
		}
	}
	if !sawKind {
		p.BayType = c.readBayType("")
	}
	p.Name = kindName(p)
	return p, nil
}

func (c *Codec) readBayType(raw string) domain.BayType {
	if bay, ok := domain.ParseBayType(canonicalBayType(raw)); ok {
		return bay
	}
	metrics.CodecDefaults.Inc()
	c.Log.Error().
		Str("bay_type", raw).
		Str("default", domain.DefaultBayType.String()).
		Msg("unknown bay type in saved part")
	return domain.DefaultBayType
}

func kindName(p *domain.Part) string {
	if p.PartType == domain.PartTypeTransportBay {
		return p.BayType.DisplayName() + " Bay"
	}
	return p.BayType.DisplayName() + " Cubicle"
}

func parseUUID(tag, text string) (uuid.UUID, error) {
	id, err := uuid.Parse(text)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: %s %q", ErrInvalidField, tag, text)
	}
	return id, nil
}

func parseOptionalUUID(tag, text string) (*uuid.UUID, error) {
	if text == "" {
		return nil, nil
	}
	id, err := parseUUID(tag, text)
	if err != nil {
		return nil, err
	}
	return &id, nil
}

func parseInt(tag, text string) (int, error) {
	n, err := strconv.Atoi(text)
	if err != nil {
		return 0, fmt.Errorf("%w: %s %q", ErrInvalidField, tag, text)
	}
	return n, nil
}
