package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"campana-api/internal/domain"
	"campana-api/internal/flow"
	"campana-api/internal/repository"
	"campana-api/internal/store"
)

// --- fakes ---

type fakeElectoresRepo struct {
	byID map[int]*domain.ElectorConPersona
}

func newFakeElectoresRepo(electores ...*domain.ElectorConPersona) *fakeElectoresRepo {
	r := &fakeElectoresRepo{byID: map[int]*domain.ElectorConPersona{}}
	for _, e := range electores {
		r.byID[e.ID] = e
	}
	return r
}

func (r *fakeElectoresRepo) GetElector(_ context.Context, id int) (*domain.ElectorConPersona, error) {
	e, ok := r.byID[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return e, nil
}

func (r *fakeElectoresRepo) ListElectores(_ context.Context, filters repository.ElectorFilters, _, _ int) ([]*domain.ElectorConPersona, int, error) {
	var out []*domain.ElectorConPersona
	for _, e := range r.byID {
		if filters.AsignadoA != "" && e.AsignadoA != filters.AsignadoA {
			continue
		}
		out = append(out, e)
	}
	return out, len(out), nil
}

func (r *fakeElectoresRepo) CreateElector(_ context.Context, e *domain.Elector) (int, error) {
	id := len(r.byID) + 1
	r.byID[id] = &domain.ElectorConPersona{Elector: *e}
	r.byID[id].ID = id
	return id, nil
}

func (r *fakeElectoresRepo) UpdateElector(_ context.Context, id int, e *domain.Elector) error {
	if _, ok := r.byID[id]; !ok {
		return repository.ErrNotFound
	}
	cur := r.byID[id]
	cur.Notas = e.Notas
	cur.AsignadoA = e.AsignadoA
	return nil
}

func (r *fakeElectoresRepo) DeleteElector(_ context.Context, id int) error {
	if _, ok := r.byID[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.byID, id)
	return nil
}

func (r *fakeElectoresRepo) UpdateElectorEstado(_ context.Context, id int, estado domain.ElectorEstado) error {
	e, ok := r.byID[id]
	if !ok {
		return repository.ErrNotFound
	}
	e.Estado = estado
	return nil
}

func (r *fakeElectoresRepo) SetEnviarLista(_ context.Context, id int) error {
	e, ok := r.byID[id]
	if !ok {
		return repository.ErrNotFound
	}
	e.EnviarLista = true
	return nil
}

func (r *fakeElectoresRepo) GetEnviarLista(_ context.Context, id int) (bool, error) {
	e, ok := r.byID[id]
	if !ok {
		return false, repository.ErrNotFound
	}
	return e.EnviarLista, nil
}

func (r *fakeElectoresRepo) ListParaEnviar(_ context.Context) ([]*domain.ElectorConPersona, error) {
	var out []*domain.ElectorConPersona
	for _, e := range r.byID {
		if e.Estado == domain.EstadoParaEnviar {
			out = append(out, e)
		}
	}
	return out, nil
}

func (r *fakeElectoresRepo) MarkSobreEnviado(_ context.Context, id int) error {
	e, ok := r.byID[id]
	if !ok || e.Estado != domain.EstadoParaEnviar {
		return repository.ErrNotFound
	}
	e.Estado = domain.EstadoSobreEnviado
	return nil
}

type fakePersonasRepo struct {
	byID        map[int]*domain.Persona
	nextID      int
	direcciones map[int]string
}

func newFakePersonasRepo() *fakePersonasRepo {
	return &fakePersonasRepo{byID: map[int]*domain.Persona{}, nextID: 1, direcciones: map[int]string{}}
}

func (r *fakePersonasRepo) GetPersona(_ context.Context, id int) (*domain.Persona, error) {
	p, ok := r.byID[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return p, nil
}

func (r *fakePersonasRepo) GetPersonaByCedula(_ context.Context, cedula string) (*domain.Persona, error) {
	for _, p := range r.byID {
		if p.Cedula == cedula {
			return p, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *fakePersonasRepo) ListPersonas(context.Context, repository.PersonaFilters, int, int) ([]*domain.Persona, int, error) {
	var out []*domain.Persona
	for _, p := range r.byID {
		out = append(out, p)
	}
	return out, len(out), nil
}

func (r *fakePersonasRepo) CreatePersona(_ context.Context, p *domain.Persona) (int, error) {
	id := r.nextID
	r.nextID++
	cp := *p
	cp.ID = id
	r.byID[id] = &cp
	return id, nil
}

func (r *fakePersonasRepo) UpdatePersona(_ context.Context, id int, p *domain.Persona) error {
	if _, ok := r.byID[id]; !ok {
		return repository.ErrNotFound
	}
	cp := *p
	cp.ID = id
	r.byID[id] = &cp
	return nil
}

func (r *fakePersonasRepo) UpdateDireccion(_ context.Context, id int, direccion string) error {
	r.direcciones[id] = direccion
	return nil
}

func (r *fakePersonasRepo) DeletePersona(_ context.Context, id int) error {
	if _, ok := r.byID[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.byID, id)
	return nil
}

type fakeLlamadasRepo struct {
	nextID     int
	llamadas   []*domain.Llamada
	respuestas map[int][]domain.Respuesta
	failCreate error
}

func newFakeLlamadasRepo() *fakeLlamadasRepo {
	return &fakeLlamadasRepo{nextID: 1, respuestas: map[int][]domain.Respuesta{}}
}

func (r *fakeLlamadasRepo) CreateLlamada(_ context.Context, l *domain.Llamada, respuestas []domain.Respuesta) (int, error) {
	if r.failCreate != nil {
		return 0, r.failCreate
	}
	id := r.nextID
	r.nextID++
	cp := *l
	cp.ID = id
	r.llamadas = append(r.llamadas, &cp)
	r.respuestas[id] = respuestas
	return id, nil
}

func (r *fakeLlamadasRepo) ListLlamadas(_ context.Context, filters repository.LlamadaFilters, _, _ int) ([]*domain.LlamadaConDetalles, int, error) {
	var out []*domain.LlamadaConDetalles
	for _, l := range r.llamadas {
		if filters.VoluntarioID != "" && l.VoluntarioID != filters.VoluntarioID {
			continue
		}
		out = append(out, &domain.LlamadaConDetalles{Llamada: *l})
	}
	return out, len(out), nil
}

func (r *fakeLlamadasRepo) GetRespuestas(_ context.Context, llamadaID int) ([]domain.Respuesta, error) {
	return r.respuestas[llamadaID], nil
}

type fakeFlowRepo struct {
	preguntas []domain.Pregunta
	reglas    []domain.Regla
	nextID    int
}

func newFakeFlowRepo(preguntas []domain.Pregunta, reglas []domain.Regla) *fakeFlowRepo {
	return &fakeFlowRepo{preguntas: preguntas, reglas: reglas, nextID: 100}
}

func (r *fakeFlowRepo) GetActivePreguntas(context.Context) ([]domain.Pregunta, error) {
	var out []domain.Pregunta
	for _, p := range r.preguntas {
		if p.Activa {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *fakeFlowRepo) GetAllReglas(context.Context) ([]domain.Regla, error) {
	return r.reglas, nil
}

func (r *fakeFlowRepo) GetPregunta(_ context.Context, id int) (*domain.Pregunta, error) {
	for i := range r.preguntas {
		if r.preguntas[i].ID == id {
			return &r.preguntas[i], nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *fakeFlowRepo) ListPreguntasConReglas(context.Context) ([]*domain.PreguntaConReglas, error) {
	var out []*domain.PreguntaConReglas
	for _, p := range r.preguntas {
		pr := &domain.PreguntaConReglas{Pregunta: p}
		for _, g := range r.reglas {
			if g.OrigenID == p.ID {
				pr.Reglas = append(pr.Reglas, g)
			}
		}
		out = append(out, pr)
	}
	return out, nil
}

func (r *fakeFlowRepo) CreatePregunta(_ context.Context, p *domain.Pregunta) (int, error) {
	id := r.nextID
	r.nextID++
	cp := *p
	cp.ID = id
	r.preguntas = append(r.preguntas, cp)
	return id, nil
}

func (r *fakeFlowRepo) UpdatePregunta(_ context.Context, id int, p *domain.Pregunta) error {
	for i := range r.preguntas {
		if r.preguntas[i].ID == id {
			cp := *p
			cp.ID = id
			r.preguntas[i] = cp
			return nil
		}
	}
	return repository.ErrNotFound
}

func (r *fakeFlowRepo) SetPreguntaActiva(_ context.Context, id int, activa bool) error {
	for i := range r.preguntas {
		if r.preguntas[i].ID == id {
			r.preguntas[i].Activa = activa
			return nil
		}
	}
	return repository.ErrNotFound
}

func (r *fakeFlowRepo) DeletePregunta(_ context.Context, id int) error {
	for i := range r.preguntas {
		if r.preguntas[i].ID == id {
			r.preguntas = append(r.preguntas[:i], r.preguntas[i+1:]...)
			return nil
		}
	}
	return repository.ErrNotFound
}

func (r *fakeFlowRepo) GetReglasByOrigen(_ context.Context, origenID int) ([]domain.Regla, error) {
	var out []domain.Regla
	for _, g := range r.reglas {
		if g.OrigenID == origenID {
			out = append(out, g)
		}
	}
	return out, nil
}

func (r *fakeFlowRepo) CreateRegla(_ context.Context, g *domain.Regla) (int, error) {
	id := r.nextID
	r.nextID++
	cp := *g
	cp.ID = id
	r.reglas = append(r.reglas, cp)
	return id, nil
}

func (r *fakeFlowRepo) DeleteRegla(_ context.Context, id int) error {
	for i := range r.reglas {
		if r.reglas[i].ID == id {
			r.reglas = append(r.reglas[:i], r.reglas[i+1:]...)
			return nil
		}
	}
	return repository.ErrNotFound
}

// --- fixtures ---

var (
	admin      = &domain.Perfil{ID: "admin-1", Rol: domain.RolAdmin}
	voluntario = &domain.Perfil{ID: "vol-1", Rol: domain.RolVoluntario}
	otro       = &domain.Perfil{ID: "vol-2", Rol: domain.RolVoluntario}
)

func elector(id, personaID int, asignadoA string) *domain.ElectorConPersona {
	return &domain.ElectorConPersona{
		Elector: domain.Elector{
			ID:        id,
			PersonaID: personaID,
			Estado:    domain.EstadoPendiente,
			AsignadoA: asignadoA,
		},
		Persona: domain.Persona{ID: personaID, Nombre: "Ana"},
	}
}

func intp(v int) *int { return &v }

// callFlowFixture: q1 (boolean, enviar_lista) then q2 (boolean).
func callFlowFixture() ([]domain.Pregunta, []domain.Regla) {
	preguntas := []domain.Pregunta{
		{ID: 1, OrdenDefault: intp(1), Texto: "¿Quiere recibir la lista?", Tipo: domain.PreguntaBoolean, Activa: true, Accion: domain.AccionEnviarLista},
		{ID: 2, OrdenDefault: intp(2), Texto: "¿Nos acompaña el domingo?", Tipo: domain.PreguntaBoolean, Activa: true},
	}
	return preguntas, nil
}

type serviceFixture struct {
	svc       LlamadaService
	electores *fakeElectoresRepo
	personas  *fakePersonasRepo
	llamadas  *fakeLlamadasRepo
}

func newServiceFixture(t *testing.T, preguntas []domain.Pregunta, reglas []domain.Regla, electores ...*domain.ElectorConPersona) *serviceFixture {
	t.Helper()
	f := &serviceFixture{
		electores: newFakeElectoresRepo(electores...),
		personas:  newFakePersonasRepo(),
		llamadas:  newFakeLlamadasRepo(),
	}
	sessions := flow.NewKVSessionStore(store.NewMemoryKV(), 0)
	f.svc = NewLlamadaService(f.electores, f.personas, f.llamadas, newFakeFlowRepo(preguntas, reglas), sessions, zap.NewNop())
	return f
}

// --- tests ---

func TestStartSessionSnapshotsFlow(t *testing.T) {
	preguntas, reglas := callFlowFixture()
	f := newServiceFixture(t, preguntas, reglas, elector(10, 20, voluntario.ID))

	sess, err := f.svc.StartSession(context.Background(), voluntario, 10)
	require.NoError(t, err)
	require.Equal(t, flow.PhaseCalling, sess.Phase)
	require.Len(t, sess.Preguntas, 2)
	require.Equal(t, 10, sess.ElectorID)
	require.Equal(t, 20, sess.PersonaID)
	require.Equal(t, voluntario.ID, sess.VoluntarioID)

	// persisted and retrievable
	got, err := f.svc.GetSession(context.Background(), voluntario, sess.ID)
	require.NoError(t, err)
	require.Equal(t, sess.ID, got.ID)
}

func TestStartSessionPermissions(t *testing.T) {
	preguntas, reglas := callFlowFixture()
	f := newServiceFixture(t, preguntas, reglas, elector(10, 20, voluntario.ID))

	_, err := f.svc.StartSession(context.Background(), otro, 10)
	require.ErrorIs(t, err, ErrNoPermission)

	// admins bypass the assignment rule
	_, err = f.svc.StartSession(context.Background(), admin, 10)
	require.NoError(t, err)

	_, err = f.svc.StartSession(context.Background(), voluntario, 999)
	require.ErrorIs(t, err, ErrElectorNotFound)
}

func TestSessionOwnership(t *testing.T) {
	preguntas, reglas := callFlowFixture()
	f := newServiceFixture(t, preguntas, reglas, elector(10, 20, ""))

	sess, err := f.svc.StartSession(context.Background(), admin, 10)
	require.NoError(t, err)

	// even another admin-visible elector does not share sessions
	_, err = f.svc.GetSession(context.Background(), voluntario, sess.ID)
	require.ErrorIs(t, err, ErrNoPermission)

	err = f.svc.DiscardSession(context.Background(), voluntario, sess.ID)
	require.ErrorIs(t, err, ErrNoPermission)
}

func TestConfirmEnviarListaWritesFlagAndDireccion(t *testing.T) {
	preguntas, reglas := callFlowFixture()
	f := newServiceFixture(t, preguntas, reglas, elector(10, 20, voluntario.ID))
	ctx := context.Background()

	sess, err := f.svc.StartSession(ctx, voluntario, 10)
	require.NoError(t, err)

	sess, intercepted, err := f.svc.Answer(ctx, voluntario, sess.ID, domain.RespuestaSi)
	require.NoError(t, err)
	require.True(t, intercepted)
	require.NotNil(t, sess.Pending)

	sess, err = f.svc.ConfirmEnviarLista(ctx, voluntario, sess.ID, "Av. Italia 1234", false)
	require.NoError(t, err)
	require.Nil(t, sess.Pending)
	require.Equal(t, intp(2), sess.CurrentID)

	flagged, err := f.electores.GetEnviarLista(ctx, 10)
	require.NoError(t, err)
	require.True(t, flagged)
	require.Equal(t, "Av. Italia 1234", f.personas.direcciones[20])
}

func TestConfirmEnviarListaWithoutDireccion(t *testing.T) {
	preguntas, reglas := callFlowFixture()
	f := newServiceFixture(t, preguntas, reglas, elector(10, 20, voluntario.ID))
	ctx := context.Background()

	sess, err := f.svc.StartSession(ctx, voluntario, 10)
	require.NoError(t, err)
	_, _, err = f.svc.Answer(ctx, voluntario, sess.ID, domain.RespuestaSi)
	require.NoError(t, err)

	// confirming with no address correction still sets the flag and
	// leaves the stored direccion untouched
	sess, err = f.svc.ConfirmEnviarLista(ctx, voluntario, sess.ID, "", false)
	require.NoError(t, err)
	require.Nil(t, sess.Pending)
	require.Equal(t, intp(2), sess.CurrentID)

	flagged, err := f.electores.GetEnviarLista(ctx, 10)
	require.NoError(t, err)
	require.True(t, flagged)
	require.Empty(t, f.personas.direcciones)
}

func TestConfirmEnviarListaRepeatOverwrites(t *testing.T) {
	preguntas, reglas := callFlowFixture()
	f := newServiceFixture(t, preguntas, reglas, elector(10, 20, voluntario.ID))
	ctx := context.Background()

	sess, err := f.svc.StartSession(ctx, voluntario, 10)
	require.NoError(t, err)
	_, _, err = f.svc.Answer(ctx, voluntario, sess.ID, domain.RespuestaSi)
	require.NoError(t, err)
	_, err = f.svc.ConfirmEnviarLista(ctx, voluntario, sess.ID, "Calle Primera 1", false)
	require.NoError(t, err)

	// go back, answer again, confirm with a new address: plain overwrite
	_, err = f.svc.Back(ctx, voluntario, sess.ID)
	require.NoError(t, err)
	_, _, err = f.svc.Answer(ctx, voluntario, sess.ID, domain.RespuestaSi)
	require.NoError(t, err)
	_, err = f.svc.ConfirmEnviarLista(ctx, voluntario, sess.ID, "Calle Segunda 2", false)
	require.NoError(t, err)

	require.Equal(t, "Calle Segunda 2", f.personas.direcciones[20])
	flagged, err := f.electores.GetEnviarLista(ctx, 10)
	require.NoError(t, err)
	require.True(t, flagged)
}

func TestConfirmEnviarListaSkipLeavesNoTrace(t *testing.T) {
	preguntas, reglas := callFlowFixture()
	f := newServiceFixture(t, preguntas, reglas, elector(10, 20, voluntario.ID))
	ctx := context.Background()

	sess, err := f.svc.StartSession(ctx, voluntario, 10)
	require.NoError(t, err)
	_, _, err = f.svc.Answer(ctx, voluntario, sess.ID, domain.RespuestaSi)
	require.NoError(t, err)

	sess, err = f.svc.ConfirmEnviarLista(ctx, voluntario, sess.ID, "", true)
	require.NoError(t, err)
	require.Equal(t, intp(2), sess.CurrentID)

	flagged, err := f.electores.GetEnviarLista(ctx, 10)
	require.NoError(t, err)
	require.False(t, flagged)
	require.Empty(t, f.personas.direcciones)
}

func TestConfirmEnviarListaWithoutPending(t *testing.T) {
	preguntas, reglas := callFlowFixture()
	f := newServiceFixture(t, preguntas, reglas, elector(10, 20, voluntario.ID))
	ctx := context.Background()

	sess, err := f.svc.StartSession(ctx, voluntario, 10)
	require.NoError(t, err)

	_, err = f.svc.ConfirmEnviarLista(ctx, voluntario, sess.ID, "x", false)
	require.ErrorIs(t, err, flow.ErrNoPending)
}

func TestFlagSurvivesDiscardedSession(t *testing.T) {
	// the confirmation commits independently of the call: discarding the
	// session afterwards must not unwind flag or address
	preguntas, reglas := callFlowFixture()
	f := newServiceFixture(t, preguntas, reglas, elector(10, 20, voluntario.ID))
	ctx := context.Background()

	sess, err := f.svc.StartSession(ctx, voluntario, 10)
	require.NoError(t, err)
	_, _, err = f.svc.Answer(ctx, voluntario, sess.ID, domain.RespuestaSi)
	require.NoError(t, err)
	_, err = f.svc.ConfirmEnviarLista(ctx, voluntario, sess.ID, "Av. Italia 1234", false)
	require.NoError(t, err)

	require.NoError(t, f.svc.DiscardSession(ctx, voluntario, sess.ID))

	flagged, err := f.electores.GetEnviarLista(ctx, 10)
	require.NoError(t, err)
	require.True(t, flagged)
}

func TestFinalizeHappyPath(t *testing.T) {
	preguntas, reglas := callFlowFixture()
	f := newServiceFixture(t, preguntas, reglas, elector(10, 20, voluntario.ID))
	ctx := context.Background()

	sess, err := f.svc.StartSession(ctx, voluntario, 10)
	require.NoError(t, err)
	_, _, err = f.svc.Answer(ctx, voluntario, sess.ID, domain.RespuestaNo)
	require.NoError(t, err)
	_, _, err = f.svc.Answer(ctx, voluntario, sess.ID, domain.RespuestaSi)
	require.NoError(t, err)

	_, err = f.svc.SelectResultado(ctx, voluntario, sess.ID, domain.ResultadoNosVota)
	require.NoError(t, err)

	llamadaID, err := f.svc.Finalize(ctx, voluntario, sess.ID)
	require.NoError(t, err)
	require.NotZero(t, llamadaID)

	// call record with both answers in order
	require.Len(t, f.llamadas.llamadas, 1)
	require.Equal(t, domain.ResultadoNosVota, f.llamadas.llamadas[0].Resultado)
	require.Equal(t, []domain.Respuesta{
		{PreguntaID: 1, Valor: domain.RespuestaNo},
		{PreguntaID: 2, Valor: domain.RespuestaSi},
	}, f.llamadas.respuestas[llamadaID])

	// no enviar-lista flag, so Nos_Vota lands on Acepto
	e, err := f.electores.GetElector(ctx, 10)
	require.NoError(t, err)
	require.Equal(t, domain.EstadoAcepto, e.Estado)

	// session gone after a successful submit
	_, err = f.svc.GetSession(ctx, voluntario, sess.ID)
	require.ErrorIs(t, err, flow.ErrSessionNotFound)
}

func TestFinalizeParaEnviarException(t *testing.T) {
	preguntas, reglas := callFlowFixture()
	f := newServiceFixture(t, preguntas, reglas, elector(10, 20, voluntario.ID))
	ctx := context.Background()

	sess, err := f.svc.StartSession(ctx, voluntario, 10)
	require.NoError(t, err)
	_, _, err = f.svc.Answer(ctx, voluntario, sess.ID, domain.RespuestaSi)
	require.NoError(t, err)
	_, err = f.svc.ConfirmEnviarLista(ctx, voluntario, sess.ID, "Av. Italia 1234", false)
	require.NoError(t, err)
	_, _, err = f.svc.Answer(ctx, voluntario, sess.ID, domain.RespuestaSi)
	require.NoError(t, err)
	_, err = f.svc.SelectResultado(ctx, voluntario, sess.ID, domain.ResultadoNosVota)
	require.NoError(t, err)

	_, err = f.svc.Finalize(ctx, voluntario, sess.ID)
	require.NoError(t, err)

	e, err := f.electores.GetElector(ctx, 10)
	require.NoError(t, err)
	require.Equal(t, domain.EstadoParaEnviar, e.Estado)
}

func TestFinalizeFailureKeepsSession(t *testing.T) {
	preguntas, reglas := callFlowFixture()
	f := newServiceFixture(t, preguntas, reglas, elector(10, 20, voluntario.ID))
	f.llamadas.failCreate = errors.New("db down")
	ctx := context.Background()

	sess, err := f.svc.StartSession(ctx, voluntario, 10)
	require.NoError(t, err)
	_, err = f.svc.SkipToOutcome(ctx, voluntario, sess.ID)
	require.NoError(t, err)
	_, err = f.svc.SelectResultado(ctx, voluntario, sess.ID, domain.ResultadoNoAtendio)
	require.NoError(t, err)

	_, err = f.svc.Finalize(ctx, voluntario, sess.ID)
	require.Error(t, err)

	// session survives in outcome phase for an explicit retry
	got, err := f.svc.GetSession(ctx, voluntario, sess.ID)
	require.NoError(t, err)
	require.Equal(t, flow.PhaseCapturingOutcome, got.Phase)
	require.NotNil(t, got.Resultado)

	f.llamadas.failCreate = nil
	_, err = f.svc.Finalize(ctx, voluntario, sess.ID)
	require.NoError(t, err)
}

func TestSubmitLlamadaReconciliation(t *testing.T) {
	cases := []struct {
		resultado   domain.Resultado
		enviarLista bool
		want        domain.ElectorEstado
	}{
		{domain.ResultadoNosVota, false, domain.EstadoAcepto},
		{domain.ResultadoNosVota, true, domain.EstadoParaEnviar},
		{domain.ResultadoNoNosVota, false, domain.EstadoDescartado},
		{domain.ResultadoNoNosVota, true, domain.EstadoDescartado},
		{domain.ResultadoNoAtendio, false, domain.EstadoLlamado},
		{domain.ResultadoNumeroIncorrecto, false, domain.EstadoLlamado},
	}
	for _, tc := range cases {
		t.Run(string(tc.resultado), func(t *testing.T) {
			preguntas, reglas := callFlowFixture()
			e := elector(10, 20, voluntario.ID)
			e.EnviarLista = tc.enviarLista
			f := newServiceFixture(t, preguntas, reglas, e)

			_, err := f.svc.SubmitLlamada(context.Background(), voluntario, SubmitLlamadaInput{
				ElectorID: 10,
				Resultado: tc.resultado,
			})
			require.NoError(t, err)
			require.Equal(t, tc.want, e.Estado)
		})
	}
}

func TestSubmitLlamadaRereadsFlag(t *testing.T) {
	// the flag may come from a previous call attempt; submission reads the
	// stored value, not anything the session carried
	preguntas, reglas := callFlowFixture()
	f := newServiceFixture(t, preguntas, reglas, elector(10, 20, voluntario.ID))
	ctx := context.Background()

	require.NoError(t, f.electores.SetEnviarLista(ctx, 10))

	_, err := f.svc.SubmitLlamada(ctx, voluntario, SubmitLlamadaInput{
		ElectorID: 10,
		Resultado: domain.ResultadoNosVota,
	})
	require.NoError(t, err)

	e, err := f.electores.GetElector(ctx, 10)
	require.NoError(t, err)
	require.Equal(t, domain.EstadoParaEnviar, e.Estado)
}

func TestSubmitLlamadaRejections(t *testing.T) {
	preguntas, reglas := callFlowFixture()
	f := newServiceFixture(t, preguntas, reglas, elector(10, 20, voluntario.ID))
	ctx := context.Background()

	_, err := f.svc.SubmitLlamada(ctx, voluntario, SubmitLlamadaInput{ElectorID: 10, Resultado: "Quizas"})
	require.ErrorIs(t, err, flow.ErrBadOutcome)

	_, err = f.svc.SubmitLlamada(ctx, otro, SubmitLlamadaInput{ElectorID: 10, Resultado: domain.ResultadoNoAtendio})
	require.ErrorIs(t, err, ErrNoPermission)

	_, err = f.svc.SubmitLlamada(ctx, voluntario, SubmitLlamadaInput{ElectorID: 404, Resultado: domain.ResultadoNoAtendio})
	require.ErrorIs(t, err, ErrElectorNotFound)
}

func TestListLlamadasRoleFiltered(t *testing.T) {
	preguntas, reglas := callFlowFixture()
	f := newServiceFixture(t, preguntas, reglas,
		elector(10, 20, voluntario.ID),
		elector(11, 21, otro.ID),
	)
	ctx := context.Background()

	_, err := f.svc.SubmitLlamada(ctx, voluntario, SubmitLlamadaInput{ElectorID: 10, Resultado: domain.ResultadoNoAtendio})
	require.NoError(t, err)
	_, err = f.svc.SubmitLlamada(ctx, otro, SubmitLlamadaInput{ElectorID: 11, Resultado: domain.ResultadoNoAtendio})
	require.NoError(t, err)

	mine, _, err := f.svc.ListLlamadas(ctx, voluntario, 1, 20)
	require.NoError(t, err)
	require.Len(t, mine, 1)

	all, _, err := f.svc.ListLlamadas(ctx, admin, 1, 20)
	require.NoError(t, err)
	require.Len(t, all, 2)
}

func TestGetElectoresParaLlamarRoleFiltered(t *testing.T) {
	preguntas, reglas := callFlowFixture()
	f := newServiceFixture(t, preguntas, reglas,
		elector(10, 20, voluntario.ID),
		elector(11, 21, otro.ID),
	)
	ctx := context.Background()

	mine, _, err := f.svc.GetElectoresParaLlamar(ctx, voluntario, 1, 20)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	require.Equal(t, 10, mine[0].ID)

	all, _, err := f.svc.GetElectoresParaLlamar(ctx, admin, 1, 20)
	require.NoError(t, err)
	require.Len(t, all, 2)
}
