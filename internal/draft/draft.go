// Package draft accumulates a multi-step listing form into one creation
// request. Nothing here touches the network; the result is handed to the
// client for submission.
//
// A Draft belongs to a single form session and is not safe for concurrent use.
package draft

import (
	"context"
	"errors"
	"fmt"
	"listingBoard/internal/models"
	"sort"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
)

type Step int

const (
	StepBasicDetails Step = iota
	StepLocation
	StepPhotos
)

var steps = []Step{StepBasicDetails, StepLocation, StepPhotos}

func (s Step) String() string {
	switch s {
	case StepBasicDetails:
		return `basic details`
	case StepLocation:
		return `location`
	case StepPhotos:
		return `photos`
	}
	return fmt.Sprintf("step(%d)", int(s))
}

// stepFields are the CreateListingRequest fields a step must fill.
var stepFields = map[Step][]string{
	StepBasicDetails: {`Title`, `Purpose`, `PropertyType`, `Description`},
	StepLocation:     {`City`, `Address`, `Landmark`},
	StepPhotos:       {`Media`},
}

var ErrPermissionDenied = errors.New("media library permission denied")

type ValidationError struct {
	Message string
	Fields  map[string]string
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return e.Message
	}

	names := make([]string, 0, len(e.Fields))
	for name := range e.Fields {
		names = append(names, name)
	}
	sort.Strings(names)

	return fmt.Sprintf("%s: %s", e.Message, strings.Join(names, `, `))
}

// Picker is the host platform's media library.
type Picker interface {
	RequestPermission(ctx context.Context) (bool, error)
	Pick(ctx context.Context) ([]models.MediaRef, error)
}

type Draft struct {
	req              models.CreateListingRequest
	step             Step
	ready            bool
	mediaUnavailable bool
	validate         *validator.Validate
}

func New() *Draft {
	return &Draft{validate: models.NewValidator()}
}

func (d *Draft) Step() Step {
	return d.step
}

// Ready reports whether the draft advanced past its last step.
func (d *Draft) Ready() bool {
	return d.ready
}

func (d *Draft) SetField(key, value string) error {
	value = strings.TrimSpace(value)

	switch key {
	case `title`:
		d.req.Title = value
	case `purpose`:
		d.req.Purpose = value
	case `propertyType`:
		d.req.PropertyType = value
	case `description`:
		d.req.Description = value
	case `city`:
		d.req.City = value
	case `address`:
		d.req.Address = value
	case `landmark`:
		d.req.Landmark = value
	case `ownerName`:
		d.req.OwnerName = value
	case `ownerPhone`:
		d.req.OwnerPhone = value
	case `ownerEmail`:
		d.req.OwnerEmail = value
	case `price`:
		n, err := parseInt(key, value, 64)
		if err != nil {
			return err
		}
		d.req.Price = n
	case `area`:
		if value == `` {
			d.req.Area = 0
			return nil
		}
		f, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return &ValidationError{Message: `Enter a number`, Fields: map[string]string{key: `numeric`}}
		}
		d.req.Area = f
	case `balconies`, `bathrooms`, `floors`:
		n, err := parseInt(key, value, 32)
		if err != nil {
			return err
		}
		switch key {
		case `balconies`:
			d.req.Balconies = int(n)
		case `bathrooms`:
			d.req.Bathrooms = int(n)
		default:
			d.req.Floors = int(n)
		}
	default:
		return &ValidationError{Message: fmt.Sprintf("Unknown field %q", key), Fields: map[string]string{key: `unknown`}}
	}

	d.ready = false
	return nil
}

func parseInt(key, value string, bits int) (int64, error) {
	if value == `` {
		return 0, nil
	}

	n, err := strconv.ParseInt(value, 10, bits)
	if err != nil {
		return 0, &ValidationError{Message: `Enter a whole number`, Fields: map[string]string{key: `numeric`}}
	}

	return n, nil
}

func (d *Draft) check(step Step) error {
	fields, ok := stepFields[step]
	if !ok {
		return &ValidationError{Message: fmt.Sprintf("Unknown %s", step)}
	}

	if err := d.validate.StructPartial(d.req, fields...); err != nil {
		msg := `Fill in every field`
		if step == StepPhotos {
			msg = fmt.Sprintf("Add at least %d photos or videos", models.MinMedia)
		}
		return &ValidationError{Message: msg, Fields: models.FieldErrors(err)}
	}

	return nil
}

// CanAdvance reports whether every required field of the step is filled in.
func (d *Draft) CanAdvance(step Step) bool {
	return d.check(step) == nil
}

// Advance moves to the next step. Past the last step the draft becomes ready,
// which needs every step to be complete.
func (d *Draft) Advance() error {
	if err := d.check(d.step); err != nil {
		return err
	}

	if d.step < steps[len(steps)-1] {
		d.step++
		return nil
	}

	if err := d.Validate(); err != nil {
		return err
	}

	d.ready = true
	return nil
}

func (d *Draft) Back() {
	d.ready = false
	if d.step > steps[0] {
		d.step--
	}
}

// Validate checks the whole draft the same way the server checks a submission.
func (d *Draft) Validate() error {
	for _, step := range steps {
		if err := d.check(step); err != nil {
			return err
		}
	}

	if err := d.validate.Struct(d.req); err != nil {
		return &ValidationError{Message: `Check the listing details`, Fields: models.FieldErrors(err)}
	}

	return nil
}

func (d *Draft) Payload() models.CreateListingRequest {
	req := d.req
	req.Media = d.Media()
	return req
}

// Reset discards everything except the media permission latch, which lasts the session.
func (d *Draft) Reset() {
	d.req = models.CreateListingRequest{}
	d.step = StepBasicDetails
	d.ready = false
}

func (d *Draft) PickMedia(ctx context.Context, picker Picker) error {
	if d.mediaUnavailable {
		return ErrPermissionDenied
	}

	granted, err := picker.RequestPermission(ctx)
	if err != nil {
		return err
	}

	if !granted {
		d.mediaUnavailable = true
		return ErrPermissionDenied
	}

	picked, err := picker.Pick(ctx)
	if err != nil {
		return err
	}

	d.req.Media = append(d.req.Media, picked...)
	return nil
}

func (d *Draft) RemoveMedia(i int) error {
	if i < 0 || i >= len(d.req.Media) {
		return &ValidationError{
			Message: fmt.Sprintf("No media at position %d", i),
			Fields:  map[string]string{`media`: `index`},
		}
	}

	d.req.Media = append(d.req.Media[:i], d.req.Media[i+1:]...)
	d.ready = false
	return nil
}

func (d *Draft) Media() []models.MediaRef {
	media := make([]models.MediaRef, len(d.req.Media))
	copy(media, d.req.Media)
	return media
}
