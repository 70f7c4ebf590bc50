package services

import (
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/riffvalley/riffvalley-app-back/internal/metrics"
	"github.com/riffvalley/riffvalley-app-back/internal/models"
	"github.com/riffvalley/riffvalley-app-back/internal/repositories"
)

// Target names the kind of entity a [SyncInstruction] writes to.
type Target string

const (
	TargetContent Target = "content"
	TargetList    Target = "list"
	TargetMedium  Target = "medium"
	TargetReunion Target = "reunion"
)

// SyncInstruction is the desired state of one linked entity.
//
// Nil dates and empty strings mean "leave as is"; only the fields that apply to
// Target are read.
type SyncInstruction struct {
	Target   Target
	TargetID string
	Fields   SyncFields
}

// SyncFields carries the propagated values.
type SyncFields struct {
	PublicationDate *time.Time // content
	ReleaseDate     *time.Time // list
	ListDate        *time.Time // content, list
	CloseDate       *time.Time // content, list

	Status     models.Status // medium
	UpdateDate *time.Time    // medium
	Assignee   string        // medium: assigned when the target has nobody and Status requires it

	Date  *time.Time // reunion
	Title string     // reunion
}

// origin identifies the list whose own request triggered propagation; it is never written back to.
// Media are always diffed, so a medium-initiated update still receives the derived status.
type origin struct {
	target Target
	id     string
}

func (o origin) is(t Target, id string) bool {
	return o.target == t && o.id == id
}

// planContentSync computes the instructions that bring the content's list, medium and reunion
// in line with c. A dated content publishes its medium; an undated one puts a Spotify medium back to ready.
func planContentSync(c *models.Content, from origin) []SyncInstruction {
	var plan []SyncInstruction

	if c.Type.HasList() && c.ListID != "" && !from.is(TargetList, c.ListID) {
		plan = append(plan, SyncInstruction{
			Target:   TargetList,
			TargetID: c.ListID,
			Fields: SyncFields{
				ReleaseDate: c.PublicationDate,
				ListDate:    c.ListDate,
				CloseDate:   c.CloseDate,
			},
		})
	}

	if !c.Medium.IsZero() {
		fields := SyncFields{Assignee: c.AuthorID}
		switch {
		case c.PublicationDate != nil:
			fields.Status = models.StatusPublished
			fields.UpdateDate = c.PublicationDate
		case c.Medium.Kind == models.KindSpotify:
			fields.Status = models.StatusReady
		}
		if fields.Status != "" {
			plan = append(plan, SyncInstruction{Target: TargetMedium, TargetID: c.Medium.ID, Fields: fields})
		}
	}

	if c.ReunionID != "" && !from.is(TargetReunion, c.ReunionID) {
		plan = append(plan, SyncInstruction{
			Target:   TargetReunion,
			TargetID: c.ReunionID,
			Fields:   SyncFields{Date: c.PublicationDate, Title: c.Name},
		})
	}

	return plan
}

// planListSync computes the instruction that mirrors list dates onto the owning content.
func planListSync(l *models.List, contentID string) SyncInstruction {
	fields := SyncFields{
		PublicationDate: l.ReleaseDate,
		CloseDate:       l.CloseDate,
	}
	if l.Type.SyncsListDate() {
		fields.ListDate = l.ListDate
	}
	return SyncInstruction{Target: TargetContent, TargetID: contentID, Fields: fields}
}

// dispatcher applies instructions inside the caller's transaction.
type dispatcher struct {
	repos  *repositories.Repos
	logger *log.Logger
}

// Apply diffs ins against its stored target and writes once if anything differs.
// It reports whether a write happened.
func (d dispatcher) Apply(ins SyncInstruction) (bool, error) {
	var (
		written bool
		err     error
	)

	switch ins.Target {
	case TargetContent:
		written, err = d.content(ins)
	case TargetList:
		written, err = d.list(ins)
	case TargetMedium:
		written, err = d.medium(ins)
	case TargetReunion:
		written, err = d.reunion(ins)
	default:
		return false, fmt.Errorf("unknown sync target %q", ins.Target)
	}
	if err != nil {
		return false, fmt.Errorf("failed to sync %s %s: %w", ins.Target, ins.TargetID, err)
	}

	if written {
		metrics.SyncWrites.WithLabelValues(string(ins.Target)).Inc()
		d.logger.Debug("synced", "target", ins.Target, "id", ins.TargetID)
	} else {
		metrics.SyncSkips.WithLabelValues(string(ins.Target)).Inc()
	}
	return written, nil
}

// ApplyAll applies every instruction in order.
func (d dispatcher) ApplyAll(plan []SyncInstruction) error {
	for _, ins := range plan {
		if _, err := d.Apply(ins); err != nil {
			return err
		}
	}
	return nil
}

// assignDate copies src into *dst when src is set and differs.
func assignDate(dst **time.Time, src *time.Time) bool {
	if src == nil || models.SameTime(*dst, src) {
		return false
	}
	t := *src
	*dst = &t
	return true
}

func (d dispatcher) content(ins SyncInstruction) (bool, error) {
	c, err := d.repos.Contents.Get(ins.TargetID)
	if err != nil {
		return false, err
	}

	changed := assignDate(&c.CloseDate, ins.Fields.CloseDate)
	changed = assignDate(&c.ListDate, ins.Fields.ListDate) || changed
	if ins.Fields.PublicationDate != nil && !models.SameTime(c.PublicationDate, ins.Fields.PublicationDate) {
		c.SetPublicationDate(ins.Fields.PublicationDate)
		changed = true
	}

	if !changed {
		return false, nil
	}
	return true, d.repos.Contents.Update(c)
}

func (d dispatcher) list(ins SyncInstruction) (bool, error) {
	l, err := d.repos.Lists.Get(ins.TargetID)
	if err != nil {
		return false, err
	}

	changed := assignDate(&l.ReleaseDate, ins.Fields.ReleaseDate)
	changed = assignDate(&l.ListDate, ins.Fields.ListDate) || changed
	changed = assignDate(&l.CloseDate, ins.Fields.CloseDate) || changed

	if !changed {
		return false, nil
	}
	return true, d.repos.Lists.Update(l)
}

func (d dispatcher) medium(ins SyncInstruction) (bool, error) {
	m, err := d.repos.Media.Get(ins.TargetID)
	if err != nil {
		return false, err
	}

	changed := assignDate(&m.UpdateDate, ins.Fields.UpdateDate)
	if ins.Fields.Status != "" && m.Status != ins.Fields.Status {
		m.Status = ins.Fields.Status
		changed = true
	}
	if m.Status.NeedsAssignee() && m.UserID == "" && ins.Fields.Assignee != "" {
		m.UserID = ins.Fields.Assignee
		changed = true
	}

	if !changed {
		return false, nil
	}
	return true, d.repos.Media.Update(m)
}

func (d dispatcher) reunion(ins SyncInstruction) (bool, error) {
	reunion, err := d.repos.Reunions.Get(ins.TargetID)
	if err != nil {
		return false, err
	}

	changed := false
	if ins.Fields.Date != nil && !reunion.Date.Equal(*ins.Fields.Date) {
		reunion.Date = *ins.Fields.Date
		changed = true
	}
	if ins.Fields.Title != "" && reunion.Title != ins.Fields.Title {
		reunion.Title = ins.Fields.Title
		changed = true
	}

	if !changed {
		return false, nil
	}
	return true, d.repos.Reunions.Update(reunion)
}
