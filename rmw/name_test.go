package rmw

import (
	"testing"
)

func TestNameValidation(t *testing.T) {
	// Positive testing
	positives := [...]string{
		"",
		"/",
		"~",
		"foo",
		"foo/bar",
		"foo_0/bar1_",
		"/foo",
		"/foo/bar",
		"~foo",
		"~foo/bar",
	}
	for _, p := range positives {
		if !isValidName(p) {
			t.Error(p)
		}
	}

	// Negative testing
	negatives := [...]string{
		"foo//bar",
		"^foo//bar",
		"//foo",
		"0foo",
		"_0foo",
		"foo/0bar",
		"foo/_bar",
		"foo/~bar",
		"foo bar",
	}
	for _, n := range negatives {
		if isValidName(n) {
			t.Error(n)
		}
	}
}

func TestNodeNameAndNamespaceValidation(t *testing.T) {
	for _, n := range []string{"talker", "_hidden", "node_1"} {
		if !isValidNodeName(n) {
			t.Error(n)
		}
	}
	for _, n := range []string{"", "1node", "a/b", "~x", "with space"} {
		if isValidNodeName(n) {
			t.Error(n)
		}
	}
	for _, ns := range []string{"/", "/foo", "/foo/bar1"} {
		if !isValidNamespace(ns) {
			t.Error(ns)
		}
	}
	for _, ns := range []string{"", "foo", "/foo/", "//foo", "/0foo"} {
		if isValidNamespace(ns) {
			t.Error(ns)
		}
	}
}

func TestCanonicalizeName(t *testing.T) {
	if canonicalizeName("/") != "/" {
		t.Fail()
	}

	if canonicalizeName("/foo//bar/") != "/foo/bar" {
		t.Fail()
	}

	if canonicalizeName("foo//bar///baz/") != "foo/bar/baz" {
		t.Fail()
	}

	if canonicalizeName("~foo//bar///baz/") != "~foo/bar/baz" {
		t.Fail()
	}
}

func TestSpecialNamespace(t *testing.T) {
	if !isGlobalName("/foo") {
		t.Fail()
	}
	if isGlobalName("~foo") {
		t.Fail()
	}
	if isGlobalName("foo") {
		t.Fail()
	}

	if isPrivateName("/foo") {
		t.Fail()
	}
	if !isPrivateName("~foo") {
		t.Fail()
	}
	if isPrivateName("foo") {
		t.Fail()
	}
}

func mustResolve(t *testing.T, r *nameResolver, name string) string {
	t.Helper()
	result, err := r.resolve(name)
	if err != nil {
		t.Fatal(err)
	}
	return result
}

func TestResolution1(t *testing.T) {
	resolver := newNameResolver("/node1", NameMap{})

	if result := mustResolve(t, resolver, "bar"); result != "/bar" {
		t.Error(result)
	}
	if result := mustResolve(t, resolver, "/bar"); result != "/bar" {
		t.Error(result)
	}
	if result := mustResolve(t, resolver, "~bar"); result != "/node1/bar" {
		t.Error(result)
	}
}

func TestResolution2(t *testing.T) {
	resolver := newNameResolver("/go/node2", NameMap{})

	if result := mustResolve(t, resolver, "foo/bar"); result != "/go/foo/bar" {
		t.Error(result)
	}
	if result := mustResolve(t, resolver, "/foo/bar"); result != "/foo/bar" {
		t.Error(result)
	}
	if result := mustResolve(t, resolver, "~foo/bar"); result != "/go/node2/foo/bar" {
		t.Error(result)
	}
}

func TestResolveRejectsInvalidNames(t *testing.T) {
	resolver := newNameResolver("/node", nil)
	for _, name := range []string{"", "/", "~", "foo//bar", "0foo"} {
		if _, err := resolver.resolve(name); err == nil {
			t.Error(name)
		}
	}
}

func TestNameMap(t *testing.T) {
	resolver := newNameResolver("/mynode", NameMap{"foo": "bar"})
	if result := mustResolve(t, resolver, "foo"); result != "/bar" {
		t.Error(result)
	}
	if result := mustResolve(t, resolver, "/foo"); result != "/bar" {
		t.Error(result)
	}

	resolver = newNameResolver("/baz/mynode", NameMap{"foo": "bar"})
	if result := mustResolve(t, resolver, "foo"); result != "/baz/bar" {
		t.Error(result)
	}

	resolver = newNameResolver("/baz/mynode", NameMap{"/foo": "/a/b/c/bar"})
	if result := mustResolve(t, resolver, "/foo"); result != "/a/b/c/bar" {
		t.Error(result)
	}
}

func TestGetNamespace(t *testing.T) {
	cases := map[string]string{
		"":              "/",
		"/":             "/",
		"/foo":          "/",
		"/foo/bar":      "/foo/",
		"/foo/bar/":     "/foo/",
		"/foo/bar/baz":  "/foo/bar/",
		"/foo/bar/baz/": "/foo/bar/",
	}
	for name, want := range cases {
		if ns := getNamespace(name); ns != want {
			t.Errorf("getNamespace(%q) = %q, want %q", name, ns, want)
		}
	}
}

func TestQualifyNode(t *testing.T) {
	if n := qualifyNode("/", "talker"); n != "/talker" {
		t.Error(n)
	}
	if n := qualifyNode("/robot", "talker"); n != "/robot/talker" {
		t.Error(n)
	}
}

func TestTopicMangling(t *testing.T) {
	if n := mangleTopicName("/chatter", false); n != "rt/chatter" {
		t.Error(n)
	}
	if n := mangleTopicName("/chatter", true); n != "/chatter" {
		t.Error(n)
	}
	if n, ok := demangleTopicName("rt/chatter"); !ok || n != "/chatter" {
		t.Error(n, ok)
	}
	if _, ok := demangleTopicName("rq/add_two_intsRequest"); ok {
		t.Fail()
	}
}

func TestServiceMangling(t *testing.T) {
	rq, rr := serviceTopicNames("/add_two_ints", false)
	if rq != "rq/add_two_intsRequest" || rr != "rr/add_two_intsReply" {
		t.Error(rq, rr)
	}
	rq, rr = serviceTopicNames("/add_two_ints", true)
	if rq != "/add_two_intsRequest" || rr != "/add_two_intsReply" {
		t.Error(rq, rr)
	}
	for _, topic := range []string{"rq/add_two_intsRequest", "rr/add_two_intsReply"} {
		if n, ok := demangleServiceName(topic); !ok || n != "/add_two_ints" {
			t.Error(topic, n, ok)
		}
	}
	if _, ok := demangleServiceName("rt/chatter"); ok {
		t.Fail()
	}
}

func TestTypeMangling(t *testing.T) {
	cases := map[string]string{
		"example_interfaces/srv/AddTwoInts_Request": "example_interfaces::srv::dds_::AddTwoInts_Request_",
		"std_msgs/msg/String":                       "std_msgs::msg::dds_::String_",
		"std_msgs/String":                           "std_msgs::msg::dds_::String_",
	}
	for ros, want := range cases {
		got, err := ddsTypeName(ros)
		if err != nil {
			t.Fatal(err)
		}
		if got != want {
			t.Errorf("ddsTypeName(%q) = %q, want %q", ros, got, want)
		}
	}
	for _, bad := range []string{"String", "a/b/c/d", "pkg//T"} {
		if _, err := ddsTypeName(bad); err == nil {
			t.Error(bad)
		}
	}

	if n := demangleTypeName("std_msgs::msg::dds_::String_"); n != "std_msgs/msg/String" {
		t.Error(n)
	}
	if n := demangleTypeName("Opaque"); n != "Opaque" {
		t.Error(n)
	}
	if n, ok := demangleServiceType("example_interfaces::srv::dds_::AddTwoInts_Response_"); !ok || n != "example_interfaces/srv/AddTwoInts" {
		t.Error(n, ok)
	}
	if _, ok := demangleServiceType("std_msgs::msg::dds_::String_"); ok {
		t.Fail()
	}
}
