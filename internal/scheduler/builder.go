package scheduler

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/alexanderramin/midai/internal/domain"
	"github.com/alexanderramin/midai/internal/relevance"
)

const (
	defaultFollowUpMinutes = 15

	// bufferPriority ranks buffers above any task or follow-up score when the
	// block cap forces drops.
	bufferPriority = 1000.0

	confidenceBuffer   = 0.9
	confidenceFollowUp = 0.6
	confidenceFocus    = 0.7
	confidenceQuickWin = 0.8
)

// Options carries per-task relevance computed upstream by the relevance filter.
type Options struct {
	Related   map[string]bool
	Relevance map[string]int
}

type placed struct {
	block    domain.DailyPlanBlock
	priority float64
	seq      int
}

type builder struct {
	pack     domain.ContextPack
	settings domain.Settings
	opts     Options
	loc      *time.Location
	day      time.Time
	window   Interval
	calls    Interval
	grid     grid

	blocks    []placed
	meetings  []domain.ContextEvent
	followUps []domain.DailyPlanFollowUp
	warnings  []CapacityWarning
	allDay    []string
	seq       int
}

// BuildPlan turns a context pack into a non-overlapping schedule for its date.
// Only structurally invalid input is an error; everything that does not fit is
// dropped and reported as a warning.
func BuildPlan(pack domain.ContextPack, opts Options) (*domain.DailyPlanResponse, error) {
	pack = pack.Normalize()
	if err := pack.Validate(); err != nil {
		return nil, err
	}

	b, err := newBuilder(pack, opts)
	if err != nil {
		return nil, err
	}

	b.seedFixed()
	b.attachBuffers()
	scored := b.scoreTasks()
	b.placeFollowUps()
	used := b.placeFocus(scored)
	b.placeQuickWins(scored, used)
	b.enforceBlockCap()

	return b.response(), nil
}

func newBuilder(pack domain.ContextPack, opts Options) (*builder, error) {
	s := pack.Settings
	loc, err := s.Location()
	if err != nil {
		return nil, err
	}
	day, err := pack.Date(loc)
	if err != nil {
		return nil, err
	}
	ws, we, err := s.WorkingHours.Minutes()
	if err != nil {
		return nil, domain.NewValidationError("settings.workingHours", "%v", err)
	}
	cs, ce, err := s.Calls.AllowedHours.Minutes()
	if err != nil {
		return nil, domain.NewValidationError("settings.calls.allowedHours", "%v", err)
	}
	return &builder{
		pack:     pack,
		settings: s,
		opts:     opts,
		loc:      loc,
		day:      day,
		window:   Interval{Start: atMinute(day, ws), End: atMinute(day, we)},
		calls:    Interval{Start: atMinute(day, cs), End: atMinute(day, ce)},
		grid:     newGrid(day, s.Blocks.SlotGranularityMinutes),
	}, nil
}

// atMinute returns the wall-clock instant minute minutes after midnight of day.
func atMinute(day time.Time, minute int) time.Time {
	y, m, d := day.Date()
	return time.Date(y, m, d, 0, minute, 0, 0, day.Location())
}

func (b *builder) add(block domain.DailyPlanBlock, priority float64) {
	b.seq++
	b.blocks = append(b.blocks, placed{block: block, priority: priority, seq: b.seq})
}

func (b *builder) warn(code WarningCode, subject, format string, args ...any) {
	b.warnings = append(b.warnings, CapacityWarning{
		Code:    code,
		Subject: subject,
		Message: fmt.Sprintf(format, args...),
	})
}

func (b *builder) busy() []Interval {
	out := make([]Interval, len(b.blocks))
	for i, p := range b.blocks {
		out[i] = Interval{Start: p.block.Start, End: p.block.End}
	}
	return out
}

func (b *builder) overlapsAny(iv Interval) bool {
	for _, p := range b.blocks {
		if iv.Overlaps(Interval{Start: p.block.Start, End: p.block.End}) {
			return true
		}
	}
	return false
}

// seedFixed copies every timed event of the plan date into a fixed block.
func (b *builder) seedFixed() {
	events := append([]domain.ContextEvent{}, b.pack.Events...)
	sort.SliceStable(events, func(i, j int) bool {
		return events[i].Start.Before(events[j].Start)
	})

	dayIv := Interval{Start: b.day, End: b.day.AddDate(0, 0, 1)}
	for _, e := range events {
		if e.AllDay {
			b.allDay = append(b.allDay, e.Title)
			continue
		}
		if !e.Start.Before(e.End) {
			b.warn(WarnEventSkipped, e.ID, "evento %q omitido: termina antes de empezar", e.Title)
			continue
		}
		iv := Interval{Start: e.Start, End: e.End}
		if !iv.Overlaps(dayIv) {
			b.warn(WarnEventSkipped, e.ID, "evento %q omitido: fuera de la fecha del plan", e.Title)
			continue
		}
		for _, p := range b.blocks {
			if iv.Overlaps(Interval{Start: p.block.Start, End: p.block.End}) {
				b.warn(WarnCalendarConflict, e.ID, "%q se empalma con %q", e.Title, p.block.Title)
			}
		}

		typ, prefix, reason := classifyEvent(e)
		one := 1.0
		b.add(domain.DailyPlanBlock{
			ID:         prefix + e.ID,
			Type:       typ,
			Status:     domain.StatusFixed,
			Start:      e.Start.In(b.loc),
			End:        e.End.In(b.loc),
			Title:      e.Title,
			Reason:     reason,
			Confidence: &one,
			Relations: &domain.BlockRelations{
				MeetingID: e.ID,
				PersonIDs: eventPersonIDs(e),
				CompanyID: e.CompanyID,
			},
		}, math.Inf(1))
		if typ == domain.BlockMeeting {
			b.meetings = append(b.meetings, e)
		}
	}
}

var nonMeetingWords = map[string]string{
	"vuelo":     "Vuelo/viaje",
	"flight":    "Vuelo/viaje",
	"viaje":     "Vuelo/viaje",
	"travel":    "Vuelo/viaje",
	"trip":      "Vuelo/viaje",
	"show":      "Show/evento",
	"concierto": "Show/evento",
	"evento":    "Show/evento",
}

// classifyEvent separates real meetings from flights, trips and shows, which
// are calendar entries without a meeting to prepare for.
func classifyEvent(e domain.ContextEvent) (domain.BlockType, string, string) {
	for _, tok := range relevance.Tokenize(e.Title) {
		if label, ok := nonMeetingWords[tok]; ok {
			return domain.BlockEvent, "event-", label
		}
	}
	return domain.BlockMeeting, "meeting-", "Reunión en calendario"
}

func eventPersonIDs(e domain.ContextEvent) []string {
	seen := map[string]bool{}
	var out []string
	for _, id := range e.PersonIDs {
		if id != "" && !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	for _, a := range e.Attendees {
		if a.PersonID != "" && !seen[a.PersonID] {
			seen[a.PersonID] = true
			out = append(out, a.PersonID)
		}
	}
	return out
}

// attachBuffers places prep and post buffers around meetings with people or a
// call link. Only the free edge of a buffer snaps to the grid; the edge that
// touches the meeting stays put.
func (b *builder) attachBuffers() {
	prepMin := b.settings.Buffers.PrepMinutes
	postMin := b.settings.Buffers.PostMinutes
	for _, e := range b.meetings {
		if !e.HasParticipants() {
			continue
		}
		start, end := e.Start.In(b.loc), e.End.In(b.loc)

		lead := prepMin
		title := "Prep: " + e.Title
		if b.settings.Plan.IncludeTravelBuffer && e.Location != "" && e.OnlineMeetingURL == "" {
			lead *= 2
			title = "Traslado y prep: " + e.Title
		}
		if lead > 0 {
			iv := Interval{Start: b.grid.Ceil(start.Add(-time.Duration(lead) * time.Minute)), End: start}
			b.tryBuffer(domain.BlockPrep, "prep-"+e.ID, title, e, iv)
		}
		if postMin > 0 {
			iv := Interval{Start: end, End: b.grid.Floor(end.Add(time.Duration(postMin) * time.Minute))}
			b.tryBuffer(domain.BlockPost, "post-"+e.ID, "Post: "+e.Title, e, iv)
		}
	}
}

func (b *builder) tryBuffer(typ domain.BlockType, id, title string, e domain.ContextEvent, iv Interval) {
	switch {
	case iv.Empty():
		b.warn(WarnBufferDropped, id, "buffer %s de %q no cabe en la cuadrícula", typ, e.Title)
		return
	case !b.window.Contains(iv):
		b.warn(WarnBufferDropped, id, "buffer %s de %q cae fuera del horario laboral", typ, e.Title)
		return
	case b.overlapsAny(iv):
		b.warn(WarnBufferDropped, id, "buffer %s de %q se empalma con otro bloque", typ, e.Title)
		return
	}
	conf := confidenceBuffer
	b.add(domain.DailyPlanBlock{
		ID:         id,
		Type:       typ,
		Status:     domain.StatusSuggested,
		Start:      iv.Start,
		End:        iv.End,
		Title:      title,
		Reason:     "Buffer de reunión",
		Confidence: &conf,
		Relations:  &domain.BlockRelations{MeetingID: e.ID, PersonIDs: eventPersonIDs(e), CompanyID: e.CompanyID},
	}, bufferPriority)
}

func (b *builder) scoreTasks() []ScoredTask {
	out := make([]ScoredTask, 0, len(b.pack.Tasks))
	for i, t := range b.pack.Tasks {
		if t.Done() {
			continue
		}
		out = append(out, ScoreTask(ScoringInput{
			Task:        t,
			Day:         b.day,
			Related:     b.opts.Related[t.ID],
			Relevance:   b.opts.Relevance[t.ID],
			QuickWinMax: b.settings.QuickWins.MaxMinutes,
			Weights:     b.settings.Scoring.Weights,
			Index:       i,
		}))
	}
	CanonicalSort(out)
	return out
}

// freeGaps returns the grid-aligned free parts of bounds that are at least
// minBlockMinutes long.
func (b *builder) freeGaps(bounds Interval) []Interval {
	var out []Interval
	for _, gap := range Subtract(bounds, b.busy()) {
		snapped := b.grid.SnapInward(gap)
		if snapped.Minutes() >= b.settings.Blocks.MinBlockMinutes {
			out = append(out, snapped)
		}
	}
	return out
}

type fit int

const (
	firstFit fit = iota
	bestFit
)

// findSlot returns a slot of exactly minutes inside bounds, placed at the start
// of the chosen gap.
func (b *builder) findSlot(bounds Interval, minutes int, strategy fit) (Interval, bool) {
	if bounds.Empty() || minutes <= 0 {
		return Interval{}, false
	}
	var chosen *Interval
	for _, gap := range b.freeGaps(bounds) {
		if gap.Minutes() < minutes {
			continue
		}
		g := gap
		if strategy == firstFit {
			chosen = &g
			break
		}
		if chosen == nil || g.Minutes() < chosen.Minutes() {
			chosen = &g
		}
	}
	if chosen == nil {
		return Interval{}, false
	}
	return Interval{Start: chosen.Start, End: chosen.Start.Add(time.Duration(minutes) * time.Minute)}, true
}

// slotMinutes rounds a requested duration up to the grid, never below the
// minimum block size.
func (b *builder) slotMinutes(want int) int {
	if want < b.settings.Blocks.MinBlockMinutes {
		want = b.settings.Blocks.MinBlockMinutes
	}
	return roundUp(want, b.settings.Blocks.SlotGranularityMinutes)
}

// roundUp and roundDown snap minutes to multiples of g. g <= 1 is a no-op.
func roundUp(v, g int) int {
	if g > 1 && v%g != 0 {
		v += g - v%g
	}
	return v
}

func roundDown(v, g int) int {
	if g > 1 {
		v -= v % g
	}
	return v
}

func (b *builder) placeFollowUps() {
	s := b.settings
	threshold := s.FollowUps.DaysWithoutResponse

	var stale []domain.ContextEmailThread
	for _, th := range b.pack.EmailThreads {
		if th.UnansweredDays > threshold {
			stale = append(stale, th)
		}
	}
	sort.SliceStable(stale, func(i, j int) bool {
		if stale[i].UnansweredDays != stale[j].UnansweredDays {
			return stale[i].UnansweredDays > stale[j].UnansweredDays
		}
		return stale[i].LastMessageAt.Before(stale[j].LastMessageAt)
	})

	callBounds := b.window.Intersect(b.calls)
	for i, th := range stale {
		if i >= s.FollowUps.MaxPerDay {
			b.warn(WarnFollowUpCap, th.ThreadID, "seguimiento de %q omitido: límite de %d por día", th.Subject, s.FollowUps.MaxPerDay)
			continue
		}
		score, urgency := ScoreFollowUp(th, threshold, s.Scoring.Weights)
		from := relevance.ExtractAddress(th.LastFrom)
		personID, person, known := b.resolvePerson(th, from)

		channel := domain.ChannelEmail
		if known && th.UnansweredDays >= 2*threshold {
			channel = domain.ChannelCall
		}

		fu := domain.DailyPlanFollowUp{
			PersonID:  domain.CoalesceStr(personID, from),
			CompanyID: domain.CoalesceStr(th.CompanyID, person.CompanyID),
			ThreadID:  th.ThreadID,
			Channel:   channel,
			Subject:   th.Subject,
			Reason:    fmt.Sprintf("Sin respuesta hace %d días", th.UnansweredDays),
			Urgency:   urgency,
		}
		if channel == domain.ChannelEmail {
			fu.Draft = b.draft(th, person)
		}

		bounds, typ, title := b.window, domain.BlockFollowUp, "Responder: "+th.Subject
		if channel == domain.ChannelCall {
			bounds, typ = callBounds, domain.BlockCall
			title = "Llamar a " + domain.CoalesceStr(person.Name, from) + ": " + th.Subject
		}

		iv, ok := b.findSlot(bounds, b.slotMinutes(defaultFollowUpMinutes), firstFit)
		if !ok {
			if channel == domain.ChannelCall {
				b.warn(WarnCallOutsideHours, th.ThreadID, "llamada de seguimiento %q sin hueco dentro del horario de llamadas", th.Subject)
			} else {
				b.warn(WarnFollowUpUnscheduled, th.ThreadID, "seguimiento de %q sin hueco libre", th.Subject)
			}
			b.followUps = append(b.followUps, fu)
			continue
		}

		fu.SuggestedWindow = &domain.FollowUpWindow{Start: iv.Start, End: iv.End}
		b.followUps = append(b.followUps, fu)

		conf := confidenceFollowUp
		rel := &domain.BlockRelations{CompanyID: fu.CompanyID, ThreadID: th.ThreadID}
		if personID != "" {
			rel.PersonIDs = []string{personID}
		}
		b.add(domain.DailyPlanBlock{
			ID:         string(typ) + "-" + th.ThreadID,
			Type:       typ,
			Status:     domain.StatusSuggested,
			Start:      iv.Start,
			End:        iv.End,
			Title:      title,
			Reason:     fu.Reason,
			Confidence: &conf,
			Relations:  rel,
		}, score)
	}
}

func (b *builder) resolvePerson(th domain.ContextEmailThread, from string) (string, domain.Person, bool) {
	for _, id := range th.PersonIDs {
		if p, ok := b.pack.PeopleIndex[id]; ok {
			return id, p, true
		}
	}
	if id, ok := b.pack.PeopleIndex.ByEmail(from); ok {
		return id, b.pack.PeopleIndex[id], true
	}
	if len(th.PersonIDs) > 0 {
		return th.PersonIDs[0], domain.Person{}, false
	}
	return "", domain.Person{}, false
}

func (b *builder) draft(th domain.ContextEmailThread, person domain.Person) *domain.FollowUpDraft {
	greeting := "Hola,"
	if person.Name != "" && !b.settings.Privacy.RedactPII {
		greeting = "Hola " + person.Name + ","
	}
	subject := th.Subject
	if !strings.HasPrefix(strings.ToLower(subject), "re:") {
		subject = "Re: " + subject
	}
	return &domain.FollowUpDraft{
		Subject: subject,
		Body:    fmt.Sprintf("%s\n\nDoy seguimiento a \"%s\". ¿Tienes novedades?\n\nSaludos.", greeting, th.Subject),
	}
}

// placeFocus carves deep-work blocks for long or unestimated tasks, bounded by
// the focus block count and the daily deep-work budget. It returns the ids of
// tasks it scheduled.
func (b *builder) placeFocus(scored []ScoredTask) map[string]bool {
	s := b.settings
	used := map[string]bool{}
	budget := s.DeepWork.MaxPerDayMinutes
	count := 0
	gran := s.Blocks.SlotGranularityMinutes
	minLen := roundUp(max(s.DeepWork.MinMinutes, s.Blocks.MinBlockMinutes), gran)

	for _, st := range scored {
		t := st.Input.Task
		if t.EstimateMinutes > 0 && t.EstimateMinutes <= s.QuickWins.MaxMinutes {
			continue
		}
		if count >= s.Plan.MaxFocusBlocks || budget < minLen {
			b.warn(WarnFocusCap, t.ID, "bloque de foco para %q omitido: límite diario de foco alcanzado", t.Title)
			continue
		}

		want := t.EstimateMinutes
		if want <= 0 {
			want = s.DeepWork.MinMinutes
		}
		want = clamp(want, minLen, budget)
		if r := roundUp(want, gran); r <= budget {
			want = r
		} else {
			want = roundDown(want, gran)
		}

		var slot Interval
		found := false
		for _, gap := range b.freeGaps(b.window) {
			length := want
			if gap.Minutes() < length {
				length = gap.Minutes()
			}
			length = roundDown(length, gran)
			if length < minLen {
				continue
			}
			slot = Interval{Start: gap.Start, End: gap.Start.Add(time.Duration(length) * time.Minute)}
			found = true
			break
		}
		if !found {
			b.warn(WarnFocusUnscheduled, t.ID, "sin hueco de %d min para enfocarse en %q", minLen, t.Title)
			continue
		}

		conf := confidenceFocus
		b.add(domain.DailyPlanBlock{
			ID:         "focus-" + t.ID,
			Type:       domain.BlockFocus,
			Status:     domain.StatusSuggested,
			Start:      slot.Start,
			End:        slot.End,
			Title:      "Foco: " + t.Title,
			Reason:     reasonText(st.Reasons, "Trabajo profundo"),
			Confidence: &conf,
			Relations:  taskRelations(t),
		}, st.Score)
		used[t.ID] = true
		budget -= slot.Minutes()
		count++
	}
	return used
}

// placeQuickWins packs short tasks into the tightest gap that fits them.
func (b *builder) placeQuickWins(scored []ScoredTask, used map[string]bool) {
	maxMin := b.settings.QuickWins.MaxMinutes
	for _, st := range scored {
		t := st.Input.Task
		if used[t.ID] || t.EstimateMinutes <= 0 || t.EstimateMinutes > maxMin {
			continue
		}
		iv, ok := b.findSlot(b.window, b.slotMinutes(t.EstimateMinutes), bestFit)
		if !ok {
			b.warn(WarnQuickWinUnscheduled, t.ID, "quick win %q sin hueco libre", t.Title)
			continue
		}
		conf := confidenceQuickWin
		b.add(domain.DailyPlanBlock{
			ID:         "quickwin-" + t.ID,
			Type:       domain.BlockQuickWin,
			Status:     domain.StatusSuggested,
			Start:      iv.Start,
			End:        iv.End,
			Title:      t.Title,
			Reason:     reasonText(st.Reasons, "Quick win"),
			Confidence: &conf,
			Relations:  taskRelations(t),
		}, st.Score)
		used[t.ID] = true
	}
}

func taskRelations(t domain.ContextTask) *domain.BlockRelations {
	return &domain.BlockRelations{TaskID: t.ID, CompanyID: t.CompanyID, PersonIDs: t.PersonIDs}
}

func reasonText(reasons []Reason, fallback string) string {
	if len(reasons) == 0 {
		return fallback
	}
	parts := make([]string, len(reasons))
	for i, r := range reasons {
		parts[i] = r.Message
	}
	return strings.Join(parts, "; ")
}

// enforceBlockCap drops derived blocks, lowest priority first and latest
// placed first among equals, until the plan fits plan.maxBlocks. Fixed blocks
// are never dropped.
func (b *builder) enforceBlockCap() {
	limit := b.settings.Plan.MaxBlocks
	fixed := 0
	for _, p := range b.blocks {
		if p.block.Fixed() {
			fixed++
		}
	}
	if fixed > limit {
		b.warn(WarnFixedOverCap, "", "%d eventos de calendario superan el límite de %d bloques", fixed, limit)
	}

	for len(b.blocks) > limit {
		victim := -1
		for i, p := range b.blocks {
			if p.block.Fixed() {
				continue
			}
			if victim < 0 ||
				p.priority < b.blocks[victim].priority ||
				(p.priority == b.blocks[victim].priority && p.seq > b.blocks[victim].seq) {
				victim = i
			}
		}
		if victim < 0 {
			return
		}
		dropped := b.blocks[victim].block
		b.blocks = append(b.blocks[:victim], b.blocks[victim+1:]...)
		b.warn(WarnBlockCap, dropped.ID, "bloque %q omitido: límite de %d bloques", dropped.Title, limit)
		b.unlinkFollowUp(dropped)
	}
}

// unlinkFollowUp clears the suggested window of a follow-up whose block was
// dropped by the cap.
func (b *builder) unlinkFollowUp(block domain.DailyPlanBlock) {
	if block.Relations == nil || block.Relations.ThreadID == "" {
		return
	}
	for i := range b.followUps {
		if b.followUps[i].ThreadID == block.Relations.ThreadID {
			b.followUps[i].SuggestedWindow = nil
		}
	}
}

func (b *builder) response() *domain.DailyPlanResponse {
	blocks := make([]domain.DailyPlanBlock, len(b.blocks))
	for i, p := range b.blocks {
		blocks[i] = p.block
	}
	sortBlocks(blocks)

	meetings := 0
	for _, bl := range blocks {
		if bl.Type == domain.BlockMeeting {
			meetings++
		}
	}
	critical := 0
	for _, t := range b.pack.Tasks {
		if t.Critical() {
			critical++
		}
	}

	var notes string
	if len(b.allDay) > 0 {
		notes = "Todo el día: " + strings.Join(b.allDay, ", ")
	}

	warnings := make([]string, len(b.warnings))
	for i, w := range b.warnings {
		warnings[i] = w.String()
	}

	followUps := b.followUps
	if followUps == nil {
		followUps = []domain.DailyPlanFollowUp{}
	}

	return &domain.DailyPlanResponse{
		Date: b.day.Format(domain.DateLayout),
		Summary: domain.DailyPlanSummary{
			MeetingsCount: meetings,
			FreeMinutes:   b.window.Minutes() - CoveredMinutes(b.window, b.busy()),
			CriticalCount: critical,
			Notes:         notes,
		},
		Blocks:    blocks,
		FollowUps: followUps,
		Warnings:  warnings,
	}
}
