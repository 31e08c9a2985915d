package memdds

import (
	"sync"

	"github.com/edwinhayes/rmwdds/dds"
)

type publisher struct {
	participant *participant
	guid        dds.GUID
	qos         dds.PublisherQos
	writers     map[*dataWriter]struct{}
}

func (pub *publisher) InstanceHandle() dds.InstanceHandle { return dds.InstanceHandle(pub.guid) }

func (pub *publisher) DefaultDataWriterQos() (dds.DataWriterQos, error) {
	if err := pub.participant.domain.fault(OpDefaultDataWriterQos); err != nil {
		return dds.DataWriterQos{}, err
	}
	return dds.DefaultDataWriterQos(), nil
}

func (pub *publisher) CreateDataWriter(dt dds.Topic, qos *dds.DataWriterQos) (dds.DataWriter, error) {
	t, ok := dt.(*topic)
	if !ok || t.participant != pub.participant {
		return nil, dds.RetcodeBadParameter
	}
	d := pub.participant.domain
	if err := d.fault(OpCreateDataWriter); err != nil {
		return nil, err
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	if _, ok := pub.participant.publishers[pub]; !ok {
		return nil, dds.RetcodeAlreadyDeleted
	}
	if _, ok := pub.participant.topics[t.name]; !ok {
		return nil, dds.RetcodeAlreadyDeleted
	}
	w := &dataWriter{
		publisher: pub,
		topic:     t,
		guid:      pub.participant.newEntityGUID(entityKindWriter),
		qos:       dds.DefaultDataWriterQos(),
		matched:   make(map[*dataReader]struct{}),
	}
	if qos != nil {
		w.qos = *qos
	}
	data, err := dds.EncodePublicationData(&dds.PublicationBuiltinTopicData{
		Key:            dds.KeyFromGUID(w.guid),
		ParticipantKey: dds.KeyFromGUID(pub.participant.guid),
		TopicName:      t.name,
		TypeName:       t.typeName,
		Durability:     w.qos.Durability,
		Deadline:       w.qos.Deadline,
		Liveliness:     w.qos.Liveliness,
		Reliability:    w.qos.Reliability,
		Lifespan:       w.qos.Lifespan,
	})
	if err != nil {
		return nil, dds.RetcodeError
	}
	w.announcement = data

	for _, r := range d.readers {
		if d.match(w, r) {
			w.matched[r] = struct{}{}
			r.matched[w] = struct{}{}
		}
	}
	pub.writers[w] = struct{}{}
	t.endpoints++
	d.writers[w.guid] = w
	d.live++
	d.announce(pub.participant.domainID, dds.BuiltinTopicNamePublication, w.InstanceHandle(), data)
	return w, nil
}

func (pub *publisher) DeleteDataWriter(dw dds.DataWriter) error {
	w, ok := dw.(*dataWriter)
	if !ok || w.publisher != pub {
		return dds.RetcodeBadParameter
	}
	d := pub.participant.domain
	if err := d.fault(OpDeleteDataWriter); err != nil {
		return err
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	if _, ok := pub.writers[w]; !ok {
		return dds.RetcodeAlreadyDeleted
	}
	d.removeWriter(w)
	return nil
}

// removeWriter unlinks w and announces its disposal. Caller holds d.mu.
func (d *Domain) removeWriter(w *dataWriter) {
	for r := range w.matched {
		delete(r.matched, w)
	}
	w.matched = nil
	delete(w.publisher.writers, w)
	delete(d.writers, w.guid)
	w.topic.endpoints--
	d.live--
	d.announce(w.participant().domainID, dds.BuiltinTopicNamePublication, w.InstanceHandle(), nil)
}

type subscriber struct {
	participant *participant
	guid        dds.GUID
	qos         dds.SubscriberQos
	readers     map[*dataReader]struct{}
	builtin     bool
}

func (sub *subscriber) InstanceHandle() dds.InstanceHandle { return dds.InstanceHandle(sub.guid) }

func (sub *subscriber) DefaultDataReaderQos() (dds.DataReaderQos, error) {
	if err := sub.participant.domain.fault(OpDefaultDataReaderQos); err != nil {
		return dds.DataReaderQos{}, err
	}
	return dds.DefaultDataReaderQos(), nil
}

func (sub *subscriber) CreateDataReader(td dds.TopicDescription, qos *dds.DataReaderQos, l dds.DataReaderListener, mask dds.StatusMask) (dds.DataReader, error) {
	if sub.builtin {
		return nil, dds.RetcodeIllegalOperation
	}
	t, ok := td.(*topic)
	if !ok || t.participant != sub.participant {
		return nil, dds.RetcodeBadParameter
	}
	d := sub.participant.domain
	if err := d.fault(OpCreateDataReader); err != nil {
		return nil, err
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	if _, ok := sub.participant.subscribers[sub]; !ok {
		return nil, dds.RetcodeAlreadyDeleted
	}
	if _, ok := sub.participant.topics[t.name]; !ok {
		return nil, dds.RetcodeAlreadyDeleted
	}
	rq := dds.DefaultDataReaderQos()
	if qos != nil {
		rq = *qos
	}
	r := newDataReader(sub, t, rq)
	data, err := dds.EncodeSubscriptionData(&dds.SubscriptionBuiltinTopicData{
		Key:            dds.KeyFromGUID(r.guid),
		ParticipantKey: dds.KeyFromGUID(sub.participant.guid),
		TopicName:      t.name,
		TypeName:       t.typeName,
		Durability:     rq.Durability,
		Deadline:       rq.Deadline,
		Liveliness:     rq.Liveliness,
		Reliability:    rq.Reliability,
	})
	if err != nil {
		return nil, dds.RetcodeError
	}
	r.announcement = data

	for _, w := range d.writers {
		if d.match(w, r) {
			w.matched[r] = struct{}{}
			r.matched[w] = struct{}{}
		}
	}
	sub.readers[r] = struct{}{}
	t.endpoints++
	d.readers[r.guid] = r
	d.live++
	if l != nil {
		r.setListener(l, mask)
	}
	d.announce(sub.participant.domainID, dds.BuiltinTopicNameSubscription, r.InstanceHandle(), data)
	return r, nil
}

func (sub *subscriber) DeleteDataReader(dr dds.DataReader) error {
	r, ok := dr.(*dataReader)
	if !ok || r.subscriber != sub || sub.builtin {
		return dds.RetcodeBadParameter
	}
	d := sub.participant.domain
	if err := d.fault(OpDeleteDataReader); err != nil {
		return err
	}
	d.mu.Lock()
	if _, ok := sub.readers[r]; !ok {
		d.mu.Unlock()
		return dds.RetcodeAlreadyDeleted
	}
	r.mu.Lock()
	conditions := len(r.conditions)
	r.mu.Unlock()
	if conditions > 0 {
		d.mu.Unlock()
		return dds.RetcodePreconditionNotMet
	}
	d.removeReader(r)
	d.mu.Unlock()

	r.stopDispatch()
	r.dropLoans()
	return nil
}

// removeReader unlinks r and announces its disposal. Caller holds d.mu.
func (d *Domain) removeReader(r *dataReader) {
	for w := range r.matched {
		delete(w.matched, r)
	}
	r.matched = nil
	r.mu.Lock()
	d.live -= len(r.conditions)
	r.conditions = nil
	r.mu.Unlock()
	delete(r.subscriber.readers, r)
	delete(d.readers, r.guid)
	if t, ok := r.td.(*topic); ok {
		t.endpoints--
	}
	d.live--
	d.announce(r.participant().domainID, dds.BuiltinTopicNameSubscription, r.InstanceHandle(), nil)
}

func (sub *subscriber) LookupDataReader(topicName string) dds.DataReader {
	sub.participant.domain.mu.Lock()
	defer sub.participant.domain.mu.Unlock()
	if r := sub.lookup(topicName); r != nil {
		return r
	}
	return nil
}

// lookup finds a reader by topic name. Caller holds d.mu.
func (sub *subscriber) lookup(topicName string) *dataReader {
	for r := range sub.readers {
		if r.td.Name() == topicName {
			return r
		}
	}
	return nil
}

func (sub *subscriber) readerList() []*dataReader {
	list := make([]*dataReader, 0, len(sub.readers))
	for r := range sub.readers {
		list = append(list, r)
	}
	return list
}

type dataWriter struct {
	publisher    *publisher
	topic        *topic
	guid         dds.GUID
	qos          dds.DataWriterQos
	matched      map[*dataReader]struct{}
	announcement []byte
}

func (w *dataWriter) participant() *participant          { return w.publisher.participant }
func (w *dataWriter) InstanceHandle() dds.InstanceHandle { return dds.InstanceHandle(w.guid) }
func (w *dataWriter) GUID() dds.GUID                     { return w.guid }
func (w *dataWriter) Topic() dds.Topic                   { return w.topic }

func (w *dataWriter) Write(data []byte) error {
	d := w.participant().domain
	if err := d.fault(OpWrite); err != nil {
		return err
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	if w.matched == nil {
		return dds.RetcodeAlreadyDeleted
	}
	info := dds.SampleInfo{
		SampleState:       dds.NotReadSampleState,
		ViewState:         dds.NotNewViewState,
		InstanceState:     dds.AliveInstanceState,
		SourceTimestamp:   d.now(),
		InstanceHandle:    w.topic.InstanceHandle(),
		PublicationHandle: w.InstanceHandle(),
		ValidData:         true,
	}
	for r := range w.matched {
		payload := make([]byte, len(data))
		copy(payload, data)
		r.deliver(dds.Sample{Data: payload, Info: info})
	}
	return nil
}

func (w *dataWriter) MatchedSubscriptions() ([]dds.InstanceHandle, error) {
	d := w.participant().domain
	if err := d.fault(OpMatchedSubscriptions); err != nil {
		return nil, err
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	handles := make([]dds.InstanceHandle, 0, len(w.matched))
	for r := range w.matched {
		handles = append(handles, r.InstanceHandle())
	}
	return handles, nil
}

type dataReader struct {
	subscriber   *subscriber
	td           dds.TopicDescription
	guid         dds.GUID
	qos          dds.DataReaderQos
	builtin      bool
	matched      map[*dataWriter]struct{}
	announcement []byte

	mu         sync.Mutex
	queue      []dds.Sample
	listener   dds.DataReaderListener
	conditions map[*readCondition]struct{}
	signal     chan struct{}
	stop       chan struct{}
	done       chan struct{}
}

func newDataReader(sub *subscriber, td dds.TopicDescription, qos dds.DataReaderQos) *dataReader {
	return &dataReader{
		subscriber: sub,
		td:         td,
		guid:       sub.participant.newEntityGUID(entityKindReader),
		qos:        qos,
		matched:    make(map[*dataWriter]struct{}),
		conditions: make(map[*readCondition]struct{}),
	}
}

func (r *dataReader) participant() *participant              { return r.subscriber.participant }
func (r *dataReader) InstanceHandle() dds.InstanceHandle     { return dds.InstanceHandle(r.guid) }
func (r *dataReader) GUID() dds.GUID                         { return r.guid }
func (r *dataReader) TopicDescription() dds.TopicDescription { return r.td }
func (r *dataReader) topicName() string                      { return r.td.Name() }
func (r *dataReader) typeName() string                       { return r.td.TypeName() }
func (r *dataReader) domain() *Domain                        { return r.subscriber.participant.domain }

// deliver queues s and wakes the listener.
func (r *dataReader) deliver(s dds.Sample) {
	r.mu.Lock()
	if r.qos.History.Kind == dds.KeepLastHistoryQos && r.qos.History.Depth > 0 &&
		len(r.queue) >= int(r.qos.History.Depth) {
		r.queue = r.queue[1:]
	}
	r.queue = append(r.queue, s)
	signal := r.signal
	r.mu.Unlock()

	if signal != nil {
		select {
		case signal <- struct{}{}:
		default:
		}
	}
}

func (r *dataReader) pending() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.queue)
}

func (r *dataReader) Take(max int) (*dds.SampleSeq, error) {
	if err := r.domain().fault(OpTake); err != nil {
		return nil, err
	}
	r.mu.Lock()
	if len(r.queue) == 0 {
		r.mu.Unlock()
		return nil, dds.RetcodeNoData
	}
	n := len(r.queue)
	if max >= 0 && max < n {
		n = max
	}
	if n == 0 {
		r.mu.Unlock()
		return nil, dds.RetcodeNoData
	}
	samples := make([]dds.Sample, n)
	copy(samples, r.queue[:n])
	r.queue = append(r.queue[:0], r.queue[n:]...)
	r.mu.Unlock()

	seq := &dds.SampleSeq{Samples: samples}
	r.domain().addLoan(seq, r)
	return seq, nil
}

func (r *dataReader) ReturnLoan(seq *dds.SampleSeq) error {
	if seq == nil {
		return nil
	}
	return r.domain().returnLoan(seq, r)
}

// dropLoans forgets loans of a deleted reader.
func (r *dataReader) dropLoans() {
	d := r.domain()
	d.loanMu.Lock()
	for seq, owner := range d.loans {
		if owner == r {
			delete(d.loans, seq)
		}
	}
	d.loanMu.Unlock()
}

func (r *dataReader) MatchedPublications() ([]dds.InstanceHandle, error) {
	d := r.domain()
	if err := d.fault(OpMatchedPublications); err != nil {
		return nil, err
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	handles := make([]dds.InstanceHandle, 0, len(r.matched))
	for w := range r.matched {
		handles = append(handles, w.InstanceHandle())
	}
	return handles, nil
}

func (r *dataReader) SetListener(l dds.DataReaderListener, mask dds.StatusMask) error {
	if err := r.domain().fault(OpSetListener); err != nil {
		return err
	}
	if l == nil || mask&dds.DataAvailableStatus == 0 {
		r.mu.Lock()
		r.listener = nil
		r.mu.Unlock()
		return nil
	}
	r.setListener(l, mask)
	return nil
}

func (r *dataReader) setListener(l dds.DataReaderListener, mask dds.StatusMask) {
	if mask&dds.DataAvailableStatus == 0 {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.listener = l
	if r.signal == nil {
		r.signal = make(chan struct{}, 1)
		r.stop = make(chan struct{})
		r.done = make(chan struct{})
		go r.dispatch(r.signal, r.stop, r.done)
	}
	if len(r.queue) > 0 {
		select {
		case r.signal <- struct{}{}:
		default:
		}
	}
}

func (r *dataReader) currentListener() dds.DataReaderListener {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.listener
}

// dispatch runs listener callbacks one at a time, the way a DDS receive
// thread would.
func (r *dataReader) dispatch(signal, stop, done chan struct{}) {
	defer close(done)
	for {
		select {
		case <-stop:
			return
		case <-signal:
		}
		for {
			l := r.currentListener()
			before := r.pending()
			if l == nil || before == 0 {
				break
			}
			l.OnDataAvailable(r)
			after := r.pending()
			if after == 0 || after >= before {
				break
			}
		}
	}
}

// stopDispatch stops the listener goroutine and waits for a running
// callback to return. It must not be called from inside a callback.
func (r *dataReader) stopDispatch() {
	r.mu.Lock()
	stop, done := r.stop, r.done
	r.listener = nil
	r.signal = nil
	r.stop = nil
	r.done = nil
	r.mu.Unlock()
	if stop != nil {
		close(stop)
		<-done
	}
}

func (r *dataReader) CreateReadCondition(sample dds.SampleStateKind, view dds.ViewStateKind, instance dds.InstanceStateKind) (dds.ReadCondition, error) {
	d := r.domain()
	if err := d.fault(OpCreateReadCondition); err != nil {
		return nil, err
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	if r.matched == nil && !r.builtin {
		return nil, dds.RetcodeAlreadyDeleted
	}
	c := &readCondition{reader: r, sample: sample, view: view, instance: instance}
	r.mu.Lock()
	r.conditions[c] = struct{}{}
	r.mu.Unlock()
	d.live++
	return c, nil
}

func (r *dataReader) DeleteReadCondition(dc dds.ReadCondition) error {
	c, ok := dc.(*readCondition)
	if !ok || c.reader != r {
		return dds.RetcodeBadParameter
	}
	d := r.domain()
	if err := d.fault(OpDeleteReadCondition); err != nil {
		return err
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.conditions[c]; !ok {
		return dds.RetcodeAlreadyDeleted
	}
	delete(r.conditions, c)
	d.live--
	return nil
}

type readCondition struct {
	reader   *dataReader
	sample   dds.SampleStateKind
	view     dds.ViewStateKind
	instance dds.InstanceStateKind
}

func (c *readCondition) DataReader() dds.DataReader { return c.reader }

func (c *readCondition) TriggerValue() bool {
	c.reader.mu.Lock()
	defer c.reader.mu.Unlock()
	for _, s := range c.reader.queue {
		if s.Info.InstanceState&c.instance != 0 {
			return true
		}
	}
	return false
}
