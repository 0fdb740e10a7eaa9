package artifacts

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/go-redis/redismock/v9"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/suite"

	"github.com/KirkDiggler/ability-forge/internal/synthesis"
	mockuuid "github.com/KirkDiggler/ability-forge/internal/uuid/mock"
)

type RedisRepoTestSuite struct {
	suite.Suite
	mockClient *redis.Client
	mock       redismock.ClientMock
	repo       Repository
	ttl        time.Duration
}

func (s *RedisRepoTestSuite) SetupTest() {
	s.mockClient, s.mock = redismock.NewClientMock()
	s.ttl = time.Hour
	s.repo = NewRedisRepository(&RedisRepoConfig{
		Client:        s.mockClient,
		UUIDGenerator: mockuuid.NewSequenceGenerator("rec"),
		TTL:           s.ttl,
	})
}

func (s *RedisRepoTestSuite) TearDownTest() {
	s.NoError(s.mock.ExpectationsWereMet())
}

func TestRedisRepoTestSuite(t *testing.T) {
	suite.Run(t, new(RedisRepoTestSuite))
}

func testArtifact() *synthesis.Artifact {
	return &synthesis.Artifact{
		Item:       synthesis.ItemRecord{Name: "Bite", Type: synthesis.ItemWeapon},
		Complexity: 1,
		Subsystems: []string{"base"},
	}
}

func (s *RedisRepoTestSuite) TestSave() {
	ctx := context.Background()

	record := &Record{MonsterKey: "wolf", Name: "Bite", Artifact: testArtifact()}

	s.mock.ExpectTxPipeline()
	s.mock.Regexp().ExpectSet("artifact:rec-0", `.*"name":"Bite".*`, s.ttl).SetVal("OK")
	s.mock.ExpectSAdd("monster:wolf:artifacts", "rec-0").SetVal(1)
	s.mock.ExpectExpire("monster:wolf:artifacts", s.ttl).SetVal(true)
	s.mock.ExpectTxPipelineExec()

	s.NoError(s.repo.Save(ctx, record))
	s.Equal("rec-0", record.ID, "missing id is generated")
	s.False(record.UpdatedAt.IsZero())
}

func (s *RedisRepoTestSuite) TestSaveWithoutMonsterKey() {
	ctx := context.Background()

	record := &Record{ID: "abc", Name: "Cantrip", Artifact: testArtifact()}

	s.mock.ExpectTxPipeline()
	s.mock.Regexp().ExpectSet("artifact:abc", `.*`, s.ttl).SetVal("OK")
	s.mock.ExpectTxPipelineExec()

	s.NoError(s.repo.Save(ctx, record))
}

func (s *RedisRepoTestSuite) TestSaveValidation() {
	ctx := context.Background()
	s.Error(s.repo.Save(ctx, nil))
	s.Error(s.repo.Save(ctx, &Record{Name: "no artifact"}))
}

func (s *RedisRepoTestSuite) TestGet() {
	ctx := context.Background()

	s.mock.ExpectGet("artifact:abc").SetVal(`{"id":"abc","name":"Bite","artifact":{"itemRecord":{"name":"Bite","type":"weapon","description":"","activation":{"type":"action"}},"effectList":null,"flagBundle":null,"behaviorScripts":null,"complexityTier":1,"qualityScore":0,"appliedSubsystems":["base"]}}`)

	record, err := s.repo.Get(ctx, "abc")
	s.Require().NoError(err)
	s.Equal("Bite", record.Name)
	s.Require().NotNil(record.Artifact)
	s.Equal(synthesis.ItemWeapon, record.Artifact.Item.Type)
}

func (s *RedisRepoTestSuite) TestGetNotFound() {
	ctx := context.Background()

	s.mock.ExpectGet("artifact:missing").RedisNil()

	_, err := s.repo.Get(ctx, "missing")
	s.Error(err)
}

func (s *RedisRepoTestSuite) TestGetDependencyError() {
	ctx := context.Background()

	s.mock.ExpectGet("artifact:abc").SetErr(errors.New("redis error"))

	_, err := s.repo.Get(ctx, "abc")
	s.Error(err)
}

func (s *RedisRepoTestSuite) TestListByMonster() {
	ctx := context.Background()

	s.mock.ExpectSMembers("monster:wolf:artifacts").SetVal([]string{"a", "b"})
	s.mock.ExpectGet("artifact:a").SetVal(`{"id":"a","monster_key":"wolf","name":"Bite","artifact":{"itemRecord":{"name":"Bite","type":"weapon","description":"","activation":{"type":"action"}},"complexityTier":1}}`)
	s.mock.ExpectGet("artifact:b").RedisNil()

	records, err := s.repo.ListByMonster(ctx, "wolf")
	s.Require().NoError(err)
	s.Len(records, 1, "dangling index members are skipped")
	s.Equal("Bite", records[0].Name)
}

func (s *RedisRepoTestSuite) TestDelete() {
	ctx := context.Background()

	s.mock.ExpectGet("artifact:a").SetVal(`{"id":"a","monster_key":"wolf","name":"Bite","artifact":{"complexityTier":1}}`)
	s.mock.ExpectTxPipeline()
	s.mock.ExpectDel("artifact:a").SetVal(1)
	s.mock.ExpectSRem("monster:wolf:artifacts", "a").SetVal(1)
	s.mock.ExpectTxPipelineExec()

	s.NoError(s.repo.Delete(ctx, "a"))
}
