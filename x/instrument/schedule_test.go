package instrument

import (
	"testing"

	"github.com/iov-one/tst"
	"github.com/iov-one/tst/errors"
	"github.com/iov-one/tst/weavetest"
	"github.com/iov-one/tst/weavetest/assert"
	. "github.com/smartystreets/goconvey/convey"
)

func TestSchedule(t *testing.T) {
	Convey("Given a ten day schedule starting at 1000", t, func() {
		conf := testConfig(weavetest.NewCondition().Address())
		conf.Start = 1000
		s, err := NewSchedule(&conf)
		So(err, ShouldBeNil)
		So(s.Periods(), ShouldEqual, 10)
		So(s.Unit(), ShouldEqual, whole)

		Convey("Time before the start is rejected", func() {
			_, err := s.CurrentPeriod(999)
			So(errors.ErrState.Is(err), ShouldBeTrue)
		})

		Convey("Periods advance once a full interval passed", func() {
			cases := []struct {
				now  tst.UnixTime
				want uint32
			}{
				{1000, 0},
				{1001, 0},
				{1000 + day, 0},
				{1000 + day + 1, 1},
				{1000 + 5*day + 1, 5},
				{1000 + 10*day, 9},
				{1000 + 10*day + 1, 10},
				{1000 + 100*day, 10},
			}
			for _, tc := range cases {
				got, err := s.CurrentPeriod(tc.now)
				So(err, ShouldBeNil)
				So(got, ShouldEqual, tc.want)
			}
		})

		Convey("Rates are read in base units", func() {
			So(s.Rate(0), ShouldEqual, 952380)
			So(s.Released(0), ShouldEqual, 47620)
			So(s.Rate(8), ShouldEqual, 994593)
			So(s.Rate(10), ShouldEqual, whole)
			So(s.Rate(42), ShouldEqual, whole)
			So(s.Released(42), ShouldEqual, 0)
		})

		Convey("Rates render as decimal fractions", func() {
			rates := s.Rates()
			So(rates, ShouldHaveLength, 11)
			So(rates[0], ShouldEqual, "0.95238")
			So(rates[3], ShouldEqual, "0.967996")
			So(rates[10], ShouldEqual, "1")
		})
	})

	Convey("Rates of a coarse unit", t, func() {
		So(FormatRates([]uint64{3, 7, 8}, 8), ShouldResemble, []string{"0.375", "0.875", "1"})
	})
}

func TestScheduleValidation(t *testing.T) {
	withRate := func(i int, rate string) []string {
		s := append([]string(nil), tenDays...)
		s[i] = rate
		return s
	}

	cases := map[string]struct {
		schedule []string
		field    string
		wantErr  *errors.Error
	}{
		"valid": {
			schedule: tenDays,
			field:    "Schedule.0",
			wantErr:  nil,
		},
		"missing par rate": {
			schedule: tenDays[:10],
			field:    "Schedule",
			wantErr:  errors.ErrState,
		},
		"not a number": {
			schedule: withRate(2, "ten percent"),
			field:    "Schedule.2",
			wantErr:  errors.ErrInput,
		},
		"finer than a base unit": {
			schedule: withRate(0, "0.9523801"),
			field:    "Schedule.0",
			wantErr:  errors.ErrInput,
		},
		"zero rate": {
			schedule: withRate(0, "0"),
			field:    "Schedule.0",
			wantErr:  errors.ErrState,
		},
		"above par": {
			schedule: withRate(9, "1.01"),
			field:    "Schedule.9",
			wantErr:  errors.ErrState,
		},
		"decreasing": {
			schedule: withRate(4, "0.96"),
			field:    "Schedule.4",
			wantErr:  errors.ErrState,
		},
		"last rate below par": {
			schedule: []string{"0.9", "0.9", "0.9", "0.9", "0.9", "0.9", "0.9", "0.9", "0.9", "0.9", "0.95"},
			field:    "Schedule.10",
			wantErr:  errors.ErrState,
		},
	}
	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			conf := testConfig(weavetest.NewCondition().Address())
			conf.Schedule = tc.schedule
			err := conf.Validate()
			assert.FieldError(t, err, tc.field, tc.wantErr)
			if tc.wantErr == nil {
				assert.Nil(t, err)
			}
		})
	}
}
