package memdds

import "github.com/edwinhayes/rmwdds/dds"

// Op names an operation that can be made to fail with InjectFault.
type Op string

const (
	OpCreateParticipant    Op = "create_participant"
	OpRegisterType         Op = "register_type"
	OpCreateTopic          Op = "create_topic"
	OpFindTopic            Op = "find_topic"
	OpDefaultTopicQos      Op = "default_topic_qos"
	OpCreatePublisher      Op = "create_publisher"
	OpCreateSubscriber     Op = "create_subscriber"
	OpDefaultDataWriterQos Op = "default_datawriter_qos"
	OpDefaultDataReaderQos Op = "default_datareader_qos"
	OpCreateDataWriter     Op = "create_datawriter"
	OpCreateDataReader     Op = "create_datareader"
	OpCreateReadCondition  Op = "create_readcondition"
	OpBuiltinSubscriber    Op = "builtin_subscriber"
	OpWrite                Op = "write"
	OpTake                 Op = "take"
	OpMatchedSubscriptions Op = "matched_subscriptions"
	OpMatchedPublications  Op = "matched_publications"
	OpSetListener          Op = "set_listener"
	OpDeleteDataWriter     Op = "delete_datawriter"
	OpDeleteDataReader     Op = "delete_datareader"
	OpDeleteReadCondition  Op = "delete_readcondition"
	OpDeletePublisher      Op = "delete_publisher"
	OpDeleteSubscriber     Op = "delete_subscriber"
	OpDeleteTopic          Op = "delete_topic"
)

// InjectFault makes op fail once, after skip further successful calls.
func (d *Domain) InjectFault(op Op, skip int) {
	d.faultMu.Lock()
	d.faults[op] = skip
	d.faultMu.Unlock()
}

// ClearFaults removes every pending fault.
func (d *Domain) ClearFaults() {
	d.faultMu.Lock()
	d.faults = make(map[Op]int)
	d.faultMu.Unlock()
}

func (d *Domain) fault(op Op) error {
	d.faultMu.Lock()
	defer d.faultMu.Unlock()
	n, ok := d.faults[op]
	if !ok {
		return nil
	}
	if n > 0 {
		d.faults[op] = n - 1
		return nil
	}
	delete(d.faults, op)
	return dds.RetcodeOutOfResources
}
