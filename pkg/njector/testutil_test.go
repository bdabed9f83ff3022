package njector

// testService is a minimal Service for tests.
type testService struct {
	key  string
	name string
}

func (s *testService) Key() string { return s.key }

func newTestService(key string) *testService {
	return &testService{key: key, name: "svc-" + key}
}

// otherService is a second Service type for type narrowing tests.
type otherService struct {
	key string
}

func (s otherService) Key() string { return s.key }

// recorder collects notifications in arrival order.
type recorder struct {
	added   []Service
	removed []string
}

func (r *recorder) attach(inj *Injector) {
	inj.OnServiceAdded(func(s Service) { r.added = append(r.added, s) })
	inj.OnServiceRemoved(func(key string) { r.removed = append(r.removed, key) })
}
